package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/pkg/response"
)

type inventoryServiceMock struct {
	resp       []models.Lot
	lastFilter models.LotFilter
}

func (m *inventoryServiceMock) List(filter models.LotFilter) []models.Lot {
	m.lastFilter = filter
	return m.resp
}

func TestInventoryHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inventoryServiceMock{
		resp: []models.Lot{{ID: "lot-1", PO: "40538940"}},
	}
	h := NewInventoryHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/inventory?search=fulton&includeClosed=true", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fulton", mockSvc.lastFilter.Search)
	assert.True(t, mockSvc.lastFilter.IncludeClosed)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestInventoryHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	awb := "125-88293311"
	mockSvc := &inventoryServiceMock{
		resp: []models.Lot{{
			ID: "lot-1", PO: "40538940", Warehouse: "MIA", Material: "1113199",
			Product: "TD 4-5 35", Size: "4-5", AvailableBoxes: 70, AWB: &awb,
		}},
	}
	h := NewInventoryHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/inventory/export?format=csv", nil)
	c.Request = req

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "PO,Warehouse,Material"))
	assert.Contains(t, body, "40538940")
	assert.Contains(t, body, "125-88293311")
}

func TestInventoryHandlerExportUnsupportedFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInventoryHandler(&inventoryServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/inventory/export?format=docx", nil)
	c.Request = req

	h.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandlerExportXLSX(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inventoryServiceMock{
		resp: []models.Lot{{ID: "lot-1", PO: "40538940", AvailableBoxes: 70}},
	}
	h := NewInventoryHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/inventory/export?format=xlsx", nil)
	c.Request = req

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}
