package services

import (
	"fmt"
	"log"
	"time"

	"bottleshop/internal/models"
	"bottleshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for employee authentication.
type AuthService struct {
	employeeRepo repositories.EmployeeRepository
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repositories.EmployeeRepository, jwtSecret string) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   12 * time.Hour, // Covers a double shift
	}
}

// RegisterEmployee registers a new employee, hashes their password, and
// saves them to the database. Role defaults to cashier.
func (s *AuthService) RegisterEmployee(employee *models.Employee) error {
	// Check if username or email already exists
	if existing, err := s.employeeRepo.GetByUsername(employee.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken", employee.Username)
	}
	if existing, err := s.employeeRepo.GetByEmail(employee.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", employee.Email)
	}

	if employee.Role == "" {
		employee.Role = models.RoleCashier
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(employee.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	employee.Password = string(hashedPassword) // Store the hashed password

	if err := s.employeeRepo.Create(employee); err != nil {
		return fmt.Errorf("failed to register employee: %w", err)
	}
	return nil
}

// LoginEmployee authenticates an employee and returns a JWT token if
// successful.
func (s *AuthService) LoginEmployee(username, password string) (string, error) {
	employee, err := s.employeeRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists
		return "", fmt.Errorf("invalid credentials")
	}

	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"employee_id": employee.ID,
		"username":    employee.Username,
		"role":        employee.Role,
		"exp":         time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":         time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if
// valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
