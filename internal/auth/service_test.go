package auth_test

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"expensetracker/internal/auth"
	"expensetracker/internal/user"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock user repository mirroring the real one's lowercased email handling.
type mockUserRepository struct {
	users  map[string]*user.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*user.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	u.Email = strings.ToLower(u.Email)
	m.users[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	u, exists := m.users[strings.ToLower(email)]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	_, exists := m.users[strings.ToLower(email)]
	return exists, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
		tokens   *auth.JWTTokenGenerator
	)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokens = auth.NewJWTTokenGenerator(
			"test-access-secret-that-is-long-enough!",
			"test-refresh-secret-that-is-long-enough!",
			15*time.Minute,
			7*24*time.Hour,
		)
		// low bcrypt cost keeps the suite fast
		service = auth.NewService(mockRepo, tokens, 4, logger)
	})

	register := func(email string) *user.User {
		u, err := service.Register(auth.RegisterDTO{
			Name:     "Dana Field",
			Email:    email,
			Password: "s3cretpass",
		})
		Expect(err).ToNot(HaveOccurred())
		return u
	}

	Describe("Register", func() {
		It("creates an employee by default with a verifiable hash", func() {
			u := register("dana@example.com")

			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Role).To(Equal(user.RoleEmployee))
			Expect(u.PasswordHash).ToNot(Equal("s3cretpass"))
			Expect(auth.VerifyPassword(u.PasswordHash, "s3cretpass")).To(Succeed())
		})

		It("honors an explicit admin role", func() {
			u, err := service.Register(auth.RegisterDTO{
				Name:     "Avery Ops",
				Email:    "avery@example.com",
				Password: "s3cretpass",
				Role:     user.RoleAdmin,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(user.RoleAdmin))
		})

		It("rejects duplicate emails case-insensitively", func() {
			register("dana@example.com")

			_, err := service.Register(auth.RegisterDTO{
				Name:     "Other Dana",
				Email:    "DANA@Example.com",
				Password: "s3cretpass",
			})
			Expect(err).To(Equal(auth.ErrEmailTaken))
		})

		It("rejects a short password", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:     "Dana Field",
				Email:    "dana@example.com",
				Password: "tiny",
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown role", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:     "Dana Field",
				Email:    "dana@example.com",
				Password: "s3cretpass",
				Role:     "superuser",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			register("dana@example.com")
		})

		It("returns a token pair whose access token carries the identity", func() {
			pair, err := service.Authenticate(auth.LoginDTO{
				Email:    "dana@example.com",
				Password: "s3cretpass",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(pair.AccessToken).ToNot(BeEmpty())
			Expect(pair.RefreshToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(pair.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(user.RoleEmployee))
		})

		It("accepts the email in any casing", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "Dana@EXAMPLE.com",
				Password: "s3cretpass",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "dana@example.com",
				Password: "wrongpass",
			})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email without revealing it", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "s3cretpass",
			})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("RefreshTokens", func() {
		It("rotates a valid refresh token", func() {
			register("dana@example.com")
			pair, err := service.Authenticate(auth.LoginDTO{
				Email:    "dana@example.com",
				Password: "s3cretpass",
			})
			Expect(err).ToNot(HaveOccurred())

			rotated, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(rotated.AccessToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(rotated.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not.a.token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("CurrentUser", func() {
		It("loads the record for an authenticated id", func() {
			created := register("dana@example.com")

			u, err := service.CurrentUser(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(u.Email).To(Equal("dana@example.com"))
		})

		It("surfaces not-found for a stale id", func() {
			_, err := service.CurrentUser(4242)
			Expect(err).To(Equal(user.ErrNotFound))
		})
	})
})
