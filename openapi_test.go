package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI Document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should document the login endpoint", func() {
		path := doc.Paths.Find("/auth/login")
		Expect(path).NotTo(BeNil())
		Expect(path.Post).NotTo(BeNil())
	})

	It("should document status request submission and the emergency briefing decision", func() {
		Expect(doc.Paths.Find("/status-requests")).NotTo(BeNil())
		ebPath := doc.Paths.Find("/status-requests/emergency-briefing/{userId}")
		Expect(ebPath).NotTo(BeNil())
		Expect(ebPath.Patch).NotTo(BeNil())
	})

	It("should document configuration management", func() {
		path := doc.Paths.Find("/configurations")
		Expect(path).NotTo(BeNil())
		Expect(path.Get).NotTo(BeNil())
		Expect(path.Post).NotTo(BeNil())
	})

	It("should secure everything except login and the probes", func() {
		for route, item := range doc.Paths.Map() {
			if route == "/auth/login" || route == "/ping" || route == "/health" {
				continue
			}
			for _, op := range item.Operations() {
				Expect(op.Security).NotTo(BeNil(), "expected security on %s", route)
			}
		}
	})
})
