package employee_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timetracker/internal/employee"
	employeeerrors "timetracker/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn  func(ctx context.Context, actorID string, clientID int64, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	getFn     func(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeDetailResponse, error)
	getAllFn  func(ctx context.Context, actorID string, clientID int64) ([]employee.EmployeeResponse, error)
	approveFn func(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeResponse, error)
}

func (f *fakeService) Create(ctx context.Context, actorID string, clientID int64, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.createFn(ctx, actorID, clientID, req)
}
func (f *fakeService) Get(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeDetailResponse, error) {
	return f.getFn(ctx, actorID, clientID, employeeID)
}
func (f *fakeService) GetAll(ctx context.Context, actorID string, clientID int64) ([]employee.EmployeeResponse, error) {
	return f.getAllFn(ctx, actorID, clientID)
}
func (f *fakeService) Approve(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeResponse, error) {
	return f.approveFn(ctx, actorID, clientID, employeeID)
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()
	workerID := uuid.New().String()
	agencyID := uuid.New().String()

	svc := &fakeService{
		createFn: func(ctx context.Context, actorID string, clientID int64, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
			assert.Equal(t, userID, actorID)
			assert.Equal(t, int64(42), clientID)
			assert.Equal(t, workerID, req.UserID)
			return employee.EmployeeResponse{ID: uuid.New().String(), EmployeeID: 123456, ClientID: clientID}, nil
		},
	}

	h := employee.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", userID)
	c.Params = gin.Params{{Key: "client_id", Value: "42"}}
	body := fmt.Sprintf(`{"user_id": %q, "agency_id": %q}`, workerID, agencyID)
	c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "123456")
}

func TestHandler_Create_MissingAgency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := employee.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "client_id", Value: "42"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/employees",
		strings.NewReader(fmt.Sprintf(`{"user_id": %q}`, uuid.New().String())))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getFn: func(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeDetailResponse, error) {
			return employee.EmployeeDetailResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}

	h := employee.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{
		{Key: "client_id", Value: "42"},
		{Key: "employee_id", Value: "999999"},
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/employees/999999", nil)
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		approveFn: func(ctx context.Context, actorID string, clientID, employeeID int64) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{EmployeeID: employeeID, ClientID: clientID, IsActive: true}, nil
		},
	}

	h := employee.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{
		{Key: "client_id", Value: "42"},
		{Key: "employee_id", Value: "123456"},
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/employees/123456/approve", nil)
	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"is_active\":true")
}
