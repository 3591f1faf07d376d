package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

// decodeStrict parses the JSON body into dst, rejecting unknown fields and
// trailing content.
func decodeStrict(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required", nil)
		}
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if dec.More() {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": "unexpected trailing data"})
	}
	return nil
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("invalid request id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
