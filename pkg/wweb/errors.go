package wweb

import apperrors "whatsweb/internal/errors"

// Error is the structured error returned by this package.
type Error = apperrors.AppError

// ErrorCode classifies an Error.
type ErrorCode = apperrors.ErrorCode

// Error codes callers are expected to branch on.
const (
	ErrCodeValidationFailed     = apperrors.ErrCodeValidationFailed
	ErrCodeCreateScheduledEvent = apperrors.ErrCodeCreateScheduledEvent
	ErrCodeStructuralAccess     = apperrors.ErrCodeStructuralAccess
	ErrCodeMediaDownload        = apperrors.ErrCodeMediaDownload
	ErrCodeBridgeCall           = apperrors.ErrCodeBridgeCall
	ErrCodeBridgeEvaluation     = apperrors.ErrCodeBridgeEvaluation
	ErrCodeBridgeUnavailable    = apperrors.ErrCodeBridgeUnavailable
	ErrCodeInvalidInput         = apperrors.ErrCodeInvalidInput
)

// CodeOf returns the code carried by err.
func CodeOf(err error) ErrorCode {
	return apperrors.GetCode(err)
}

func requireID(entity string, id ID) error {
	if id.IsZero() {
		return apperrors.NewStructuralError(entity, "id._serialized")
	}
	return nil
}

// requireSerialized guards ids derived from payload fields other than id.
func requireSerialized(entity, field, id string) error {
	if id == "" {
		return apperrors.NewStructuralError(entity, field)
	}
	return nil
}

func unexpectedResult(fn string, err error) error {
	return apperrors.Wrap(err, apperrors.ErrCodeBridgeCall, "unexpected result shape").
		WithContext("fn", fn)
}
