package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

type ErrorResponse struct {
	Code          string `json:"code"`
	Error         string `json:"error"`
	Kind          string `json:"kind,omitempty"`
	ErrorInstance error  `json:"-"`
}

type GeneralResponse[T any] struct {
	Status string `json:"status"`
	Result T      `json:"result"`
}

// @Enum(list)
type ObjectTypeList string

const ObjectTypeListList ObjectTypeList = "list"

type ListResponse[T any] struct {
	Object  ObjectTypeList `json:"object"`
	Data    []T            `json:"data"`
	FirstID *string        `json:"first_id"`
	LastID  *string        `json:"last_id"`
	HasMore bool           `json:"has_more"`
	Total   int64          `json:"total"`
}

const ResponseCodeOk = "000000"

type PageCursor struct {
	FirstID *string
	LastID  *string
	HasMore bool
	Total   int64
}

func BuildCursorPage[T any](
	items []*T,
	getID func(*T) *string,
	hasMoreFunc func() ([]*T, error),
	CountFunc func() (int64, error),
) (*PageCursor, error) {
	cursorPage := &PageCursor{}
	if len(items) > 0 {
		cursorPage.FirstID = getID(items[0])
		cursorPage.LastID = getID(items[len(items)-1])
		moreRecords, err := hasMoreFunc()
		if err != nil {
			return nil, err
		}
		if len(moreRecords) > 0 {
			cursorPage.HasMore = true
		}
	}
	count, err := CountFunc()
	if err != nil {
		return cursorPage, err
	}
	cursorPage.Total = count
	return cursorPage, nil
}

// NewListResponse wraps a page of items with its cursor.
func NewListResponse[T any](data []T, cursor *PageCursor) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{
		Object:  ObjectTypeListList,
		Data:    data,
		FirstID: cursor.FirstID,
		LastID:  cursor.LastID,
		HasMore: cursor.HasMore,
		Total:   cursor.Total,
	}
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch common.KindOf(err) {
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindConfiguration:
		return http.StatusServiceUnavailable
	case common.KindProvider, common.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes err as an ErrorResponse. fallbackCode is used when
// err carries no code of its own.
func AbortWithError(reqCtx *gin.Context, err error, fallbackCode string) {
	status := StatusFor(err)
	code := common.CodeOf(err, fallbackCode)
	if status >= http.StatusInternalServerError {
		logger.GetLogger().WithField("error_code", code).Errorf("request failed: %v", err)
	}
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Code:  code,
		Error: err.Error(),
		Kind:  string(common.KindOf(err)),
	})
}

// AbortBadRequest rejects malformed input that never reached the domain.
func AbortBadRequest(reqCtx *gin.Context, code string, message string) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:  code,
		Error: message,
		Kind:  string(common.KindValidation),
	})
}
