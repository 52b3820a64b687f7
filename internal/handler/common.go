package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/response"
)

// multipartOverhead is the allowance for form boundaries and fields on top
// of the file itself
const multipartOverhead = 1 << 20

// parseUUIDParam parses a path parameter, writing a 400 on failure
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses an optional id; empty means nil
func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// getQueryInt gets an integer query parameter with default value
func getQueryInt(c *gin.Context, key string, defaultValue int) int {
	value := c.Query(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// limitBody caps the request body; reads past the limit fail with
// *http.MaxBytesError
func limitBody(c *gin.Context, limit int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// readFormFile reads a multipart file field into memory
func readFormFile(c *gin.Context, field string) (*multipart.FileHeader, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return header, data, nil
}

// sendFormFileError writes 413 for an oversized body and 400 otherwise
func sendFormFileError(c *gin.Context, field string, err error) {
	if isBodyTooLarge(err) {
		response.SendError(c, http.StatusRequestEntityTooLarge, response.ErrCodePayloadTooLarge, "Request body too large")
		return
	}
	response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Missing or unreadable form field: "+field)
}
