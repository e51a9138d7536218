package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/madegner/estate-ledger/internal/apperrors"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/core/services"
	"github.com/madegner/estate-ledger/internal/dto"
	"github.com/madegner/estate-ledger/internal/handlers"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// --- Mock SplitService ---
type MockSplitService struct {
	mock.Mock
}

var _ portssvc.SplitSvcFacade = (*MockSplitService)(nil)

func (m *MockSplitService) Split(ctx context.Context, parentID string, req dto.SplitRequest, actor string) ([]string, error) {
	args := m.Called(ctx, parentID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSplitService) Unsplit(ctx context.Context, parentID string, req dto.UnsplitRequest, actor string) error {
	args := m.Called(ctx, parentID, req, actor)
	return args.Error(0)
}

type SplitHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockSplitService *MockSplitService
	actor            string
}

func (suite *SplitHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.ActorResolutionMiddleware())

	suite.mockSplitService = new(MockSplitService)
	suite.actor = uuid.NewString()

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterSplitRoutes(v1, suite.mockSplitService)
}

func (suite *SplitHandlerTestSuite) postJSON(url string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, suite.actor)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func splitRequestBody() dto.SplitRequest {
	return dto.SplitRequest{
		Reason:             "split per creditor request",
		ClassificationMode: dto.ClassificationModeUnresolved,
		Children: []dto.ChildSpec{
			{AmountCents: -100000, Description: "part one"},
			{AmountCents: -50000, Description: "part two"},
		},
	}
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_Success() {
	parentID := uuid.NewString()
	childIDs := []string{uuid.NewString(), uuid.NewString()}
	req := splitRequestBody()

	suite.mockSplitService.On("Split", mock.Anything, parentID, req, suite.actor).Return(childIDs, nil).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.SplitResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(parentID, resp.ParentID)
	suite.Equal(childIDs, resp.ChildIDs)
	suite.mockSplitService.AssertExpectations(suite.T())
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_SingleChildRejectedByBinding() {
	parentID := uuid.NewString()
	req := splitRequestBody()
	req.Children = req.Children[:1]

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSplitService.AssertNotCalled(suite.T(), "Split", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_SumMismatchIs400() {
	parentID := uuid.NewString()
	req := splitRequestBody()

	suite.mockSplitService.On("Split", mock.Anything, parentID, req, suite.actor).
		Return(nil, fmt.Errorf("%w: children sum -149999, parent amount -150000, delta 1", services.ErrChildSumMismatch)).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "delta 1")
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_AlreadySplitIs409() {
	parentID := uuid.NewString()
	req := splitRequestBody()

	suite.mockSplitService.On("Split", mock.Anything, parentID, req, suite.actor).
		Return(nil, services.ErrAlreadySplit).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_NotFoundIs404() {
	parentID := uuid.NewString()
	req := splitRequestBody()

	suite.mockSplitService.On("Split", mock.Anything, parentID, req, suite.actor).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SplitHandlerTestSuite) TestSplitTransaction_InvariantViolationIs500() {
	parentID := uuid.NewString()
	req := splitRequestBody()

	suite.mockSplitService.On("Split", mock.Anything, parentID, req, suite.actor).
		Return(nil, apperrors.ErrInvariantViolation).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/split", parentID), req)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), "rolled back")
}

func (suite *SplitHandlerTestSuite) TestUnsplitTransaction_Success() {
	parentID := uuid.NewString()
	req := dto.UnsplitRequest{Reason: "entered in error"}

	suite.mockSplitService.On("Unsplit", mock.Anything, parentID, req, suite.actor).Return(nil).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/unsplit", parentID), req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockSplitService.AssertExpectations(suite.T())
}

func (suite *SplitHandlerTestSuite) TestUnsplitTransaction_ConfirmationRequiredIs409() {
	parentID := uuid.NewString()
	req := dto.UnsplitRequest{Reason: "redo split"}
	atRisk := []string{uuid.NewString(), uuid.NewString()}

	suite.mockSplitService.On("Unsplit", mock.Anything, parentID, req, suite.actor).
		Return(&apperrors.ConfirmationRequiredError{AtRiskChildIDs: atRisk}).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/unsplit", parentID), req)

	suite.Equal(http.StatusConflict, w.Code)
	var resp dto.ConfirmationRequiredResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(atRisk, resp.AtRiskChildIDs)
	suite.NotEmpty(resp.Error)
}

func (suite *SplitHandlerTestSuite) TestUnsplitTransaction_NoChildrenIs409() {
	parentID := uuid.NewString()
	req := dto.UnsplitRequest{Reason: "nothing to undo"}

	suite.mockSplitService.On("Unsplit", mock.Anything, parentID, req, suite.actor).
		Return(services.ErrNoChildren).Once()

	w := suite.postJSON(fmt.Sprintf("/api/v1/transactions/%s/unsplit", parentID), req)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestSplitHandler(t *testing.T) {
	suite.Run(t, new(SplitHandlerTestSuite))
}
