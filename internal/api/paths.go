package api

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// GJSON paths into the endpoint's JSON bodies
const (
	// PathResponse holds the reply text of a successful answer
	PathResponse = "response"

	// PathDetail holds the reason of an error answer, e.g. {"detail": "Mensaje vacío"}
	PathDetail = "detail"
)

// errorMessage describes a non-2xx answer, preferring the body's detail field
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if detail := gjson.GetBytes(body, PathDetail); detail.Type == gjson.String && detail.String() != "" {
			return detail.String()
		}
	}
	return fmt.Sprintf("unexpected status %d", status)
}
