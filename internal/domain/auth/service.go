package auth

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DemoUser is one row of the hardcoded credential table.
type DemoUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	RoleName   string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
	Password   string `json:"-"`
}

// DefaultUsers mirrors the demo portal logins, one per role.
var DefaultUsers = []DemoUser{
	{ID: "u-employee", Email: "employee@acme.com", Name: "Sarah Johnson", RoleName: RoleEmployee, EmployeeID: "E-1027", Password: "employee123"},
	{ID: "u-hr", Email: "hr@acme.com", Name: "Rachel Green", RoleName: RoleHR, Password: "hr123"},
	{ID: "u-admin", Email: "admin@acme.com", Name: "Alex Admin", RoleName: RoleAdmin, Password: "admin123"},
}

type account struct {
	user DemoUser
	hash string
}

type Service struct {
	secret   string
	ttl      time.Duration
	accounts map[string]account
}

// NewService hashes the credential table once so plaintext passwords are not kept.
func NewService(secret string, ttl time.Duration, users []DemoUser) (*Service, error) {
	svc := &Service{secret: secret, ttl: ttl, accounts: make(map[string]account, len(users))}
	for _, u := range users {
		if !ValidRole(u.RoleName) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, u.RoleName)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		u.Password = ""
		svc.accounts[normalizeEmail(u.Email)] = account{user: u, hash: string(hashed)}
	}
	return svc, nil
}

func (s *Service) Authenticate(email, password string) (DemoUser, error) {
	acct, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return DemoUser{}, ErrInvalidCredentials
	}
	if err := CheckPassword(acct.hash, password); err != nil {
		return DemoUser{}, ErrInvalidCredentials
	}
	return acct.user, nil
}

func (s *Service) IssueToken(user DemoUser) (string, error) {
	return GenerateToken(s.secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, RoleName: user.RoleName}, s.ttl)
}

func (s *Service) Lookup(userID string) (DemoUser, bool) {
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			return acct.user, true
		}
	}
	return DemoUser{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
