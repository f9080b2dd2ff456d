package validation

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type queryRequest struct {
	Query string `json:"q" validate:"required,valid_query,max=1000"`
}

type visitorRequest struct {
	ID string `json:"visitor_id" validate:"valid_visitor_id"`
}

type eventRequest struct {
	Type string `json:"type" validate:"required,oneof=input focus"`
}

func TestValidate(t *testing.T) {
	validator, err := New(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)

	testCases := []struct {
		name          string
		request       any
		expectedError string
	}{
		{name: "ValidQuery", request: queryRequest{Query: "cairo university"}},
		{name: "MissingQuery", request: queryRequest{}, expectedError: "missing required field 'q'"},
		{name: "BlankQuery", request: queryRequest{Query: "   "}, expectedError: "invalid query"},
		{name: "NullByteQuery", request: queryRequest{Query: "go\x00lang"}, expectedError: "invalid query"},
		{name: "LongQuery", request: queryRequest{Query: strings.Repeat("a", 1001)}, expectedError: "value or length of field 'q' is not in the expected range"},
		{name: "ValidVisitor", request: visitorRequest{ID: "6f1c2a9e-4b7d-4e0a-9c3f-2d8e5b1a7c40"}},
		{name: "InvalidVisitor", request: visitorRequest{ID: "visitor"}, expectedError: "invalid visitor id"},
		{name: "KnownEvent", request: eventRequest{Type: "focus"}},
		{name: "UnknownEvent", request: eventRequest{Type: "scroll"}, expectedError: "unexpected value for field 'type'"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			err := validator.Validate(testCase.request)
			if testCase.expectedError == "" {
				assert.NoError(err)
				return
			}
			assert.EqualError(err, testCase.expectedError)
		})
	}
}
