package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danolu/userhub/internal/domain/user"
	"github.com/danolu/userhub/internal/http/handlers"
	"github.com/danolu/userhub/internal/service"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake service implementation of the handlers.UserManager interface

type fakeUserService struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	getFn    func(ctx context.Context, id int64) (user.User, error)
	createFn func(ctx context.Context, req service.CreateUserRequest) (string, error)
	updateFn func(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error)
	deleteFn func(ctx context.Context, id int64) (string, error)
	searchFn func(ctx context.Context, name string) ([]user.User, error)
}

func (f *fakeUserService) GetAllUsers(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeUserService) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUserService) CreateUser(ctx context.Context, req service.CreateUserRequest) (string, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return "", nil
}

func (f *fakeUserService) UpdateUser(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return "", nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id int64) (string, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return "", nil
}

func (f *fakeUserService) SearchUsers(ctx context.Context, name string) ([]user.User, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, name)
	}
	return nil, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func internalErr(msg string) error {
	return &service.InternalError{Message: msg}
}

func TestGetAllUsersHandler(t *testing.T) {
	tests := []struct {
		name           string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			svcSetup: func(f *fakeUserService) {
				f.listFn = func(ctx context.Context) ([]user.User, error) {
					return []user.User{
						{ID: 1, Name: "John Doe", Email: "john@example.com"},
						{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name: "service_error",
			svcSetup: func(f *fakeUserService) {
				f.listFn = func(ctx context.Context) ([]user.User, error) {
					return nil, internalErr("Failed to fetch users")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodGet, "/users", h.GetAllUsers)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Count int `json:"count"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Count != tt.wantCount {
					t.Fatalf("got count %d, want %d", resp.Count, tt.wantCount)
				}
			}
		})
	}
}

func TestGetUserByIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/user/1",
			svcSetup: func(f *fakeUserService) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{ID: id, Name: "John Doe", Email: "john@example.com"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/user/99",
			svcSetup: func(f *fakeUserService) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, service.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// non-numeric id never reaches the service
			name:           "invalid_id",
			url:            "/user/abc",
			svcSetup:       nil,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service_error",
			url:  "/user/1",
			svcSetup: func(f *fakeUserService) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, internalErr("Failed to fetch user")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodGet, "/user/:id", h.GetUserByID)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				body := w.Body.String()

				// the password hash must never appear in a projection
				if bytes.Contains(w.Body.Bytes(), []byte("password")) {
					t.Fatalf("response leaks password material: %s", body)
				}
			}
		})
	}
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"name": "John Doe", "email": "john@example.com", "password": "password123"}`,
			svcSetup: func(f *fakeUserService) {
				f.createFn = func(ctx context.Context, req service.CreateUserRequest) (string, error) {
					if req.Name != "John Doe" || req.Email != "john@example.com" {
						return "", errors.New("request not passed through")
					}
					return "User created successfully", nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error",
			body: `{"name": "", "email": "invalid"}`,
			svcSetup: func(f *fakeUserService) {
				f.createFn = func(ctx context.Context, req service.CreateUserRequest) (string, error) {
					return "", &service.ValidationError{Reason: "Name and email are required"}
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "malformed_json",
			body:           `{"name": `,
			svcSetup:       nil,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service_error",
			body: `{"name": "John Doe", "email": "john@example.com", "password": "password123"}`,
			svcSetup: func(f *fakeUserService) {
				f.createFn = func(ctx context.Context, req service.CreateUserRequest) (string, error) {
					return "", internalErr("Failed to create user")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodPost, "/users", h.CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/user/1",
			body: `{"name": "Jane Smith", "email": "jane@example.com"}`,
			svcSetup: func(f *fakeUserService) {
				f.updateFn = func(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error) {
					return "User updated successfully", nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/user/99",
			body: `{"name": "Jane Smith", "email": "jane@example.com"}`,
			svcSetup: func(f *fakeUserService) {
				f.updateFn = func(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error) {
					return "", service.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "validation_error",
			url:  "/user/1",
			body: `{"name": "Jane Smith", "email": "no-at-sign"}`,
			svcSetup: func(f *fakeUserService) {
				f.updateFn = func(ctx context.Context, id int64, req service.UpdateUserRequest) (string, error) {
					return "", &service.ValidationError{Reason: "Invalid email format"}
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodPut, "/user/:id", h.UpdateUser)

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/user/1",
			svcSetup: func(f *fakeUserService) {
				f.deleteFn = func(ctx context.Context, id int64) (string, error) {
					return "User deleted successfully", nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/user/99",
			svcSetup: func(f *fakeUserService) {
				f.deleteFn = func(ctx context.Context, id int64) (string, error) {
					return "", service.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "service_error",
			url:  "/user/1",
			svcSetup: func(f *fakeUserService) {
				f.deleteFn = func(ctx context.Context, id int64) (string, error) {
					return "", internalErr("Failed to delete user")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodDelete, "/user/:id", h.DeleteUser)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestSearchUsersHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeUserService)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			url:  "/search?name=oh",
			svcSetup: func(f *fakeUserService) {
				f.searchFn = func(ctx context.Context, name string) ([]user.User, error) {
					if name != "oh" {
						return nil, errors.New("query param not passed")
					}
					return []user.User{
						{ID: 1, Name: "John Doe", Email: "john@example.com"},
						{ID: 3, Name: "Bob Johnson", Email: "bob@example.com"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name: "missing_name",
			url:  "/search",
			svcSetup: func(f *fakeUserService) {
				f.searchFn = func(ctx context.Context, name string) ([]user.User, error) {
					return nil, &service.ValidationError{Reason: "Please provide a name to search"}
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service_error",
			url:  "/search?name=oh",
			svcSetup: func(f *fakeUserService) {
				f.searchFn = func(ctx context.Context, name string) ([]user.User, error) {
					return nil, internalErr("Search failed")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUserService{}

			if tt.svcSetup != nil {
				tt.svcSetup(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodGet, "/search", h.SearchUsers)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Count int `json:"count"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Count != tt.wantCount {
					t.Fatalf("got count %d, want %d", resp.Count, tt.wantCount)
				}
			}
		})
	}
}
