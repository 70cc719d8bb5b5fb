package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrapAndMessage(t *testing.T) {
	cause := errors.New("row not found")
	appErr := NewAppError("ESTIMATE_NOT_FOUND", "estimate not found", http.StatusNotFound, cause)

	require.Equal(t, "row not found", appErr.Error())
	require.ErrorIs(t, appErr, cause)
	require.True(t, IsAppError(appErr))

	bare := NewAppError("INVALID_BODY", "could not decode body", http.StatusBadRequest, nil)
	require.Equal(t, "could not decode body", bare.Error())
}

func TestAppErrorWithDetails(t *testing.T) {
	base := NewAppError("CATALOG_INVALID", "catalog payload failed validation", http.StatusUnprocessableEntity, nil)
	detailed := base.WithDetails([]string{"categories[0]: id is required"})

	require.Equal(t, []string{"categories[0]: id is required"}, detailed.Details)
	require.Nil(t, base.Details, "original must stay untouched")
	require.Equal(t, base.Code, detailed.Code)
	require.Equal(t, base.HTTPStatus, detailed.HTTPStatus)

	var nilErr *AppError
	require.Nil(t, nilErr.WithDetails("ignored"))
}
