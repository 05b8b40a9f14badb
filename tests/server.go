// Package testapi is an in-process fake of the registration REST backend.
// Client and controller tests point at it through httptest so every request
// crosses a real HTTP boundary, token checks included.
package testapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/shuleni/registra/core/student"
)

var secretKey = []byte("registra-test-secret")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

type account struct {
	student.Student
	password string
}

type Server struct {
	app *echo.Echo

	mu       sync.Mutex
	nextID   int
	accounts map[int]*account
	requests []string
}

func NewServer() *Server {
	s := &Server{
		app:      echo.New(),
		accounts: make(map[int]*account),
	}
	s.setup()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Requests lists every received call as "METHOD /path", in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Seed registers an account directly, bypassing the API.
func (s *Server) Seed(fullName, username, email, password, enrollmentDate string, roles ...student.Role) student.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(roles) == 0 {
		roles = []student.Role{student.RoleUser}
	}
	s.nextID++
	acct := &account{
		Student: student.Student{
			ID:             s.nextID,
			Username:       username,
			FullName:       fullName,
			Email:          email,
			EnrollmentDate: enrollmentDate,
			Roles:          roles,
		},
		password: password,
	}
	s.accounts[acct.ID] = acct
	return acct.Student
}

// TokenFor mints a signed token for a seeded account.
func (s *Server) TokenFor(username string) string {
	s.mu.Lock()
	acct := s.findByUsername(username)
	s.mu.Unlock()
	if acct == nil {
		return ""
	}
	token, _ := generateToken(acct)
	return token
}

func (s *Server) setup() {
	s.app.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s.mu.Lock()
			s.requests = append(s.requests, ctx.Request().Method+" "+ctx.Request().URL.Path)
			s.mu.Unlock()
			return next(ctx)
		}
	})

	api := s.app.Group("/api")
	api.POST("/auth/signin", s.signin)
	api.POST("/auth/signup", s.signup)

	ag := api.Group("/students", s.authRequired)
	ag.PUT("/profile", s.updateProfile)
	ag.GET("", s.list, staffOnly)
	ag.POST("", s.create, staffOnly)
	ag.PUT("/:id", s.update, staffOnly)
	ag.DELETE("/:id", s.destroy, adminOnly)
}

// Handlers

func (s *Server) signin(ctx echo.Context) error {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	acct := s.findByUsername(strings.ToLower(creds.Username))
	s.mu.Unlock()
	if acct == nil || acct.password != creds.Password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Error: Invalid credentials")
	}

	token, err := generateToken(acct)
	if err != nil {
		return err
	}
	roles := make([]string, 0, len(acct.Roles))
	for _, r := range acct.Roles {
		roles = append(roles, r.Prefixed())
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"accessToken":    token,
		"tokenType":      "Bearer",
		"id":             acct.ID,
		"username":       acct.Username,
		"fullName":       acct.FullName,
		"email":          acct.Email,
		"enrollmentDate": acct.EnrollmentDate,
		"roles":          roles,
	})
}

func (s *Server) signup(ctx echo.Context) error {
	var data struct {
		Username       string   `json:"username"`
		Email          string   `json:"email"`
		Password       string   `json:"password"`
		FullName       string   `json:"fullName"`
		EnrollmentDate string   `json:"enrollmentDate"`
		Roles          []string `json:"role"`
	}
	if err := ctx.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByUsername(data.Username) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Error: Username is already taken!")
	}

	roles := make([]student.Role, 0, len(data.Roles))
	for _, raw := range data.Roles {
		if role, ok := student.NormalizeRole(raw); ok {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = []student.Role{student.RoleUser}
	}

	s.nextID++
	s.accounts[s.nextID] = &account{
		Student: student.Student{
			ID:             s.nextID,
			Username:       data.Username,
			FullName:       data.FullName,
			Email:          data.Email,
			EnrollmentDate: data.EnrollmentDate,
			Roles:          roles,
		},
		password: data.Password,
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "User registered successfully!"})
}

func (s *Server) list(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	students := make([]student.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, s.accounts[id].Student)
	}
	return ctx.JSON(http.StatusOK, students)
}

func (s *Server) create(ctx echo.Context) error {
	var data struct {
		Username       string   `json:"username"`
		Email          string   `json:"email"`
		Password       string   `json:"password"`
		FullName       string   `json:"fullName"`
		EnrollmentDate string   `json:"enrollmentDate"`
		Roles          []string `json:"role"`
	}
	if err := ctx.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if data.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Full name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByUsername(data.Username) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Error: Username is already taken!")
	}

	roles := make([]student.Role, 0, len(data.Roles))
	for _, raw := range data.Roles {
		if role, ok := student.NormalizeRole(raw); ok {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = []student.Role{student.RoleUser}
	}

	s.nextID++
	acct := &account{
		Student: student.Student{
			ID:             s.nextID,
			Username:       data.Username,
			FullName:       data.FullName,
			Email:          data.Email,
			EnrollmentDate: data.EnrollmentDate,
			Roles:          roles,
		},
		password: data.Password,
	}
	s.accounts[acct.ID] = acct
	return ctx.JSON(http.StatusCreated, acct.Student)
}

func (s *Server) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}

	var data struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		FullName       string `json:"fullName"`
		EnrollmentDate string `json:"enrollmentDate"`
	}
	if err := ctx.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	acct.Username = data.Username
	acct.Email = data.Email
	acct.FullName = data.FullName
	acct.EnrollmentDate = data.EnrollmentDate
	return ctx.JSON(http.StatusOK, acct.Student)
}

func (s *Server) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	delete(s.accounts, id)
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) updateProfile(ctx echo.Context) error {
	claims := getClaims(ctx)

	var data struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		FullName       string `json:"fullName"`
		EnrollmentDate string `json:"enrollmentDate"`
		Password       string `json:"password"`
	}
	if err := ctx.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := strconv.Atoi(claims.Subject)
	acct, ok := s.accounts[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	acct.Username = data.Username
	acct.Email = data.Email
	acct.FullName = data.FullName
	acct.EnrollmentDate = data.EnrollmentDate
	if data.Password != "" {
		acct.password = data.Password
	}
	return ctx.JSON(http.StatusOK, acct.Student)
}

// findByUsername scans the account table; callers must hold s.mu.
func (s *Server) findByUsername(username string) *account {
	for _, acct := range s.accounts {
		if acct.Username == username {
			return acct
		}
	}
	return nil
}

// Auth plumbing

func generateToken(acct *account) (string, error) {
	roles := make([]string, 0, len(acct.Roles))
	for _, r := range acct.Roles {
		roles = append(roles, r.Prefixed())
	}
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(acct.ID),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		Username: acct.Username,
		Roles:    roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

func (s *Server) authRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
		}
		claims := new(Claims)
		token, err := jwt.ParseWithClaims(
			strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secretKey, nil
			},
		)
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
		}
		ctx.Set("claims", claims)
		return next(ctx)
	}
}

func getClaims(ctx echo.Context) *Claims {
	claims, _ := ctx.Get("claims").(*Claims)
	return claims
}

func hasAnyRole(ctx echo.Context, roles ...student.Role) bool {
	claims := getClaims(ctx)
	if claims == nil {
		return false
	}
	for _, raw := range claims.Roles {
		if got, ok := student.NormalizeRole(raw); ok {
			for _, want := range roles {
				if got == want {
					return true
				}
			}
		}
	}
	return false
}

func staffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !hasAnyRole(ctx, student.RoleModerator, student.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "permission denied")
		}
		return next(ctx)
	}
}

func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !hasAnyRole(ctx, student.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "permission denied")
		}
		return next(ctx)
	}
}
