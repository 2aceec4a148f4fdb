package main

import (
	"github.com/statusdesk/statusdesk/cmd"
)

func main() {
	cmd.Execute()
}
