package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
	"github.com/frescomar/allocation-api/pkg/response"
)

type allocationServiceMock struct {
	listResp     []models.Allocation
	getResp      models.Allocation
	getErr       error
	createResp   models.Allocation
	createErr    error
	cancelErr    error
	lastCreate   dto.CreateAllocationRequest
	createCalled bool
	cancelledID  string
}

func (m *allocationServiceMock) List() []models.Allocation { return m.listResp }

func (m *allocationServiceMock) Get(id string) (models.Allocation, error) {
	return m.getResp, m.getErr
}

func (m *allocationServiceMock) Create(ctx context.Context, req dto.CreateAllocationRequest) (models.Allocation, error) {
	m.createCalled = true
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *allocationServiceMock) Cancel(ctx context.Context, id string) error {
	m.cancelledID = id
	return m.cancelErr
}

type milestoneServiceMock struct {
	resp models.Allocation
	err  error
	last models.Milestone
}

func (m *milestoneServiceMock) Set(ctx context.Context, allocationID string, milestone models.Milestone) (models.Allocation, error) {
	m.last = milestone
	return m.resp, m.err
}

type notificationServiceMock struct {
	ruleResp models.Allocation
	ruleErr  error
	entry    models.NotificationLogEntry
	sent     bool
	sendErr  error
}

func (m *notificationServiceMock) UpdateRule(ctx context.Context, allocationID string, req dto.NotifyRuleRequest) (models.Allocation, error) {
	return m.ruleResp, m.ruleErr
}

func (m *notificationServiceMock) SendNow(ctx context.Context, allocationID string) (models.NotificationLogEntry, bool, error) {
	return m.entry, m.sent, m.sendErr
}

func newAllocationTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAllocationHandlerCreate(t *testing.T) {
	mockSvc := &allocationServiceMock{
		createResp: models.Allocation{ID: "ASG-0001", Customer: "Fulton Fish"},
	}
	h := NewAllocationHandler(mockSvc, &milestoneServiceMock{}, &notificationServiceMock{})

	payload, _ := json.Marshal(dto.CreateAllocationRequest{
		Type:         models.AllocationOrder,
		SalesOrderID: "SO-1",
		Lines:        []dto.LineRequest{{LotID: "lot-1", Boxes: 10}},
	})
	c, w := newAllocationTestContext(t, http.MethodPost, "/allocations", payload)

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
	assert.Equal(t, "SO-1", mockSvc.lastCreate.SalesOrderID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestAllocationHandlerCreateInvalidBody(t *testing.T) {
	h := NewAllocationHandler(&allocationServiceMock{}, &milestoneServiceMock{}, &notificationServiceMock{})

	c, w := newAllocationTestContext(t, http.MethodPost, "/allocations", []byte(`{"type":"ORDER"`))
	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerCreateInsufficientStock(t *testing.T) {
	mockSvc := &allocationServiceMock{
		createErr: appErrors.InsufficientStock("40538940", "1113199", 5),
	}
	h := NewAllocationHandler(mockSvc, &milestoneServiceMock{}, &notificationServiceMock{})

	payload, _ := json.Marshal(dto.CreateAllocationRequest{
		Type:         models.AllocationSpot,
		SpotCustomer: "Harbor Trading",
		Lines:        []dto.LineRequest{{LotID: "lot-1", Boxes: 10}},
	})
	c, w := newAllocationTestContext(t, http.MethodPost, "/allocations", payload)

	h.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", envelope.Error.Code)
}

func TestAllocationHandlerGetNotFound(t *testing.T) {
	mockSvc := &allocationServiceMock{getErr: appErrors.ErrNotFound}
	h := NewAllocationHandler(mockSvc, &milestoneServiceMock{}, &notificationServiceMock{})

	c, w := newAllocationTestContext(t, http.MethodGet, "/allocations/ASG-0404", nil)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0404"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocationHandlerCancel(t *testing.T) {
	mockSvc := &allocationServiceMock{}
	h := NewAllocationHandler(mockSvc, &milestoneServiceMock{}, &notificationServiceMock{})

	c, w := newAllocationTestContext(t, http.MethodDelete, "/allocations/ASG-0001", nil)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0001"}}

	h.Cancel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ASG-0001", mockSvc.cancelledID)
}

func TestAllocationHandlerSetMilestone(t *testing.T) {
	milestones := &milestoneServiceMock{
		resp: models.Allocation{ID: "ASG-0001", Status: models.MilestoneDelivered},
	}
	h := NewAllocationHandler(&allocationServiceMock{}, milestones, &notificationServiceMock{})

	payload, _ := json.Marshal(dto.SetMilestoneRequest{Status: models.MilestoneDelivered})
	c, w := newAllocationTestContext(t, http.MethodPut, "/allocations/ASG-0001/milestone", payload)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0001"}}

	h.SetMilestone(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.MilestoneDelivered, milestones.last)
}

func TestAllocationHandlerNotify(t *testing.T) {
	notifications := &notificationServiceMock{
		entry: models.NotificationLogEntry{ID: "n-1", Success: true},
		sent:  true,
	}
	h := NewAllocationHandler(&allocationServiceMock{}, &milestoneServiceMock{}, notifications)

	c, w := newAllocationTestContext(t, http.MethodPost, "/allocations/ASG-0001/notify", nil)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0001"}}

	h.Notify(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, true, envelope.Meta["sent"])
}

func TestAllocationHandlerNotifySkipped(t *testing.T) {
	h := NewAllocationHandler(&allocationServiceMock{}, &milestoneServiceMock{}, &notificationServiceMock{sent: false})

	c, w := newAllocationTestContext(t, http.MethodPost, "/allocations/ASG-0001/notify", nil)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0001"}}

	h.Notify(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, false, envelope.Meta["sent"])
}

func TestAllocationHandlerUpdateNotifyRule(t *testing.T) {
	notifications := &notificationServiceMock{
		ruleResp: models.Allocation{ID: "ASG-0001"},
	}
	h := NewAllocationHandler(&allocationServiceMock{}, &milestoneServiceMock{}, notifications)

	enabled := false
	payload, _ := json.Marshal(dto.NotifyRuleRequest{Enabled: &enabled})
	c, w := newAllocationTestContext(t, http.MethodPut, "/allocations/ASG-0001/notify-rule", payload)
	c.Params = gin.Params{{Key: "id", Value: "ASG-0001"}}

	h.UpdateNotifyRule(c)
	require.Equal(t, http.StatusOK, w.Code)
}
