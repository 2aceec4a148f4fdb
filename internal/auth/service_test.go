package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/auth"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/shift"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	"github.com/statusdesk/statusdesk/internal/user"
)

type mockUserStore struct {
	users map[int64]*user.User
}

func (m *mockUserStore) add(u *user.User) *user.User {
	m.users[u.UserID] = u
	return u
}

func (m *mockUserStore) GetByUserID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (m *mockUserStore) Update(u *user.User) error {
	m.users[u.UserID] = u
	return nil
}

type mockRequestLog struct {
	requests  []*statusrequest.StatusRequest
	restamped []string
	nextID    int64
}

func (m *mockRequestLog) CloseAndCreate(ctx context.Context, req *statusrequest.StatusRequest) error {
	for _, r := range m.requests {
		if r.UserID == req.UserID && r.IsOpen() {
			r.CloseAt(req.StartedAt)
		}
	}
	m.nextID++
	req.ID = m.nextID
	m.requests = append(m.requests, req)
	return nil
}

func (m *mockRequestLog) FindLatestLogin(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].UserID == userID && m.requests[i].LoginLogout == statusrequest.MarkerLogin {
			return m.requests[i], nil
		}
	}
	return nil, errors.New("no login record")
}

func (m *mockRequestLog) Update(ctx context.Context, req *statusrequest.StatusRequest) error {
	return nil
}

func (m *mockRequestLog) RestampShiftName(ctx context.Context, userID int64, shiftName string, since time.Time) error {
	m.restamped = append(m.restamped, shiftName)
	return nil
}

type mockShiftSource struct {
	shifts []*shift.Shift
}

func (m *mockShiftSource) GetAllOrderedByStart() ([]*shift.Shift, error) {
	return m.shifts, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		svc       *auth.Service
		users     *mockUserStore
		requests  *mockRequestLog
		shifts    *mockShiftSource
		publisher *mockPublisher
		tokens    *auth.JWTTokenGenerator
		now       time.Time
		ctx       context.Context
	)

	// ten past nine, within tolerance of the Morning shift start
	morning := time.Date(2026, 3, 10, 9, 10, 0, 0, time.Local)

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		return string(h)
	}

	newUser := func(id int64, password string) *user.User {
		return users.add(&user.User{
			UserID:       id,
			FirstName:    "Alex",
			LastName:     "Reyes",
			Role:         user.RoleAgent,
			StaffActive:  true,
			Status:       status.Offline,
			PasswordHash: hash(password),
		})
	}

	BeforeEach(func() {
		users = &mockUserStore{users: make(map[int64]*user.User)}
		requests = &mockRequestLog{}
		shifts = &mockShiftSource{shifts: []*shift.Shift{
			{ID: 1, Name: "Morning", Start: "09:00", End: "17:00"},
			{ID: 2, Name: "Night", Start: "22:00", End: "06:00"},
		}}
		publisher = &mockPublisher{}
		tokens = auth.NewJWTTokenGenerator("test-secret", time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = morning
		ctx = context.Background()

		svc = auth.NewService(users, requests, shifts, tokens, publisher, logger, bcrypt.MinCost).
			WithClock(func() time.Time { return now })
	})

	Describe("Login", func() {
		Context("with valid credentials near a shift start", func() {
			It("should open an Available login record labelled with the shift", func() {
				// Given
				u := newUser(1, "secret123")

				// When
				result, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.ShiftName).To(Equal("Morning"))
				Expect(result.Token).ToNot(BeEmpty())
				Expect(u.Status).To(Equal(status.Available))

				Expect(requests.requests).To(HaveLen(1))
				row := requests.requests[0]
				Expect(row.LoginLogout).To(Equal(statusrequest.MarkerLogin))
				Expect(row.StatusName).To(Equal(status.Available))
				Expect(row.ShiftName).To(Equal("Morning"))
				Expect(row.ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
			})

			It("should return a token the middleware can validate", func() {
				newUser(1, "secret123")

				result, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})
				Expect(err).ToNot(HaveOccurred())

				claims, err := svc.ValidateToken(result.Token)
				Expect(err).ToNot(HaveOccurred())
				Expect(claims.UserID).To(Equal(int64(1)))
				Expect(claims.Role).To(Equal(user.RoleAgent))
			})

			It("should relabel today's earlier requests with the detected shift", func() {
				newUser(1, "secret123")

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				Expect(err).ToNot(HaveOccurred())
				Expect(requests.restamped).To(Equal([]string{"Morning"}))
			})

			It("should publish a login event", func() {
				newUser(1, "secret123")

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				Expect(err).ToNot(HaveOccurred())
				Expect(publisher.published).To(HaveLen(1))
				evt := publisher.published[0].(*events.UserLoggedInEvent)
				Expect(evt.UserID).To(Equal(int64(1)))
				Expect(evt.Name).To(Equal("Alex Reyes"))
				Expect(evt.Status).To(Equal(status.Available))
			})
		})

		Context("when logging in mid-shift", func() {
			It("should leave the shift label empty", func() {
				// detection matches shift starts only, not whole windows
				newUser(1, "secret123")
				now = time.Date(2026, 3, 10, 13, 0, 0, 0, time.Local)

				result, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.ShiftName).To(BeEmpty())
				Expect(requests.restamped).To(BeEmpty())
			})
		})

		Context("with an unknown user id", func() {
			It("should return invalid credentials", func() {
				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 99, Password: "whatever"})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
			})
		})

		Context("with inactive staff", func() {
			It("should refuse the login", func() {
				u := newUser(1, "secret123")
				u.StaffActive = false

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeStaffInactive))
			})
		})

		Context("with a wrong password", func() {
			It("should count down the remaining attempts", func() {
				u := newUser(1, "secret123")

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "nope"})

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("2 attempt(s) left"))
				Expect(u.FailedAttempts).To(Equal(1))
				Expect(u.Locked).To(BeFalse())
			})

			It("should lock the account on the third failure", func() {
				u := newUser(1, "secret123")

				for i := 0; i < 3; i++ {
					_, _ = svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "nope"})
				}

				Expect(u.Locked).To(BeTrue())
				Expect(u.LockedAt).ToNot(BeNil())

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeAccountLocked))
			})
		})

		Context("when the lockout window has elapsed", func() {
			It("should auto-unlock and log in", func() {
				u := newUser(1, "secret123")
				lockedAt := now.Add(-6 * time.Minute)
				u.Locked = true
				u.FailedAttempts = 3
				u.LockedAt = &lockedAt

				result, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Token).ToNot(BeEmpty())
				Expect(u.Locked).To(BeFalse())
				Expect(u.FailedAttempts).To(BeZero())
			})
		})

		Context("when no shifts are configured", func() {
			It("should fail with a server error", func() {
				newUser(1, "secret123")
				shifts.shifts = nil

				_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			})
		})
	})

	Describe("Logout", func() {
		It("should close the login row with the session duration", func() {
			u := newUser(1, "secret123")
			_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})
			Expect(err).ToNot(HaveOccurred())
			loginRow := requests.requests[0]

			now = now.Add(45 * time.Minute)
			Expect(svc.Logout(ctx, 1, "")).To(Succeed())

			Expect(loginRow.EndedAt).ToNot(BeNil())
			Expect(*loginRow.Duration).To(Equal(45))
			Expect(u.Status).To(Equal(status.Offline))

			last := requests.requests[len(requests.requests)-1]
			Expect(last.LoginLogout).To(Equal(statusrequest.MarkerLogout))
			Expect(last.StatusName).To(Equal(status.Offline))
			Expect(last.IsOpen()).To(BeFalse())
			Expect(last.Reason).To(Equal("User logged out"))
		})

		It("should publish a logout event", func() {
			newUser(1, "secret123")
			_, err := svc.Login(ctx, auth.LoginDTO{UserID: 1, Password: "secret123"})
			Expect(err).ToNot(HaveOccurred())
			publisher.published = nil

			Expect(svc.Logout(ctx, 1, "shift over")).To(Succeed())

			evt := publisher.published[0].(*events.UserLoggedOutEvent)
			Expect(evt.UserID).To(Equal(int64(1)))
			Expect(evt.Status).To(Equal(status.Offline))
		})
	})

	Describe("ChangePassword", func() {
		It("should reject a wrong old password", func() {
			newUser(1, "secret123")

			err := svc.ChangePassword(ctx, 1, auth.ChangePasswordDTO{
				OldPassword:     "wrong",
				NewPassword:     "newsecret",
				ConfirmPassword: "newsecret",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCredentials))
		})

		It("should reject reusing the old password", func() {
			newUser(1, "secret123")

			err := svc.ChangePassword(ctx, 1, auth.ChangePasswordDTO{
				OldPassword:     "secret123",
				NewPassword:     "secret123",
				ConfirmPassword: "secret123",
			})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("different"))
		})

		It("should update the hash on success", func() {
			u := newUser(1, "secret123")
			oldHash := u.PasswordHash

			err := svc.ChangePassword(ctx, 1, auth.ChangePasswordDTO{
				OldPassword:     "secret123",
				NewPassword:     "newsecret",
				ConfirmPassword: "newsecret",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.PasswordHash).ToNot(Equal(oldHash))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newsecret"))).To(Succeed())
		})
	})

	Describe("ResetPassword", func() {
		It("should require the admin role", func() {
			newUser(1, "secret123")
			newUser(2, "other456")

			err := svc.ResetPassword(ctx, 1, 2, auth.ResetPasswordDTO{NewPassword: "fresh789"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAdminOnly))
		})

		It("should let an admin set a new password", func() {
			admin := newUser(1, "secret123")
			admin.Role = user.RoleAdmin
			target := newUser(2, "other456")

			err := svc.ResetPassword(ctx, 1, 2, auth.ResetPasswordDTO{NewPassword: "fresh789"})

			Expect(err).ToNot(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte("fresh789"))).To(Succeed())
		})
	})
})
