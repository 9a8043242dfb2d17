package ddns

import (
	"encoding/json"
	"net/http"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/version"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain"
)

// Response is a transport-neutral rendering of a Result.
type Response struct {
	StatusCode  int
	ContentType string
	Body        string
}

type resultBody struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// FormatResult renders res as JSON, or as "STATUS\nmessage" plain text when
// raw is set. The status code is always 200; the outcome is in the body.
func FormatResult(res Result, raw bool) Response {
	if raw {
		return Response{
			StatusCode:  http.StatusOK,
			ContentType: contentTypeText,
			Body:        string(res.Status) + "\n" + res.Message,
		}
	}
	return jsonResponse(resultBody{Status: res.Status, Message: res.Message})
}

// FormatVersion renders the build metadata. Raw mode reports only the version.
func FormatVersion(info version.Info, raw bool) Response {
	if raw {
		return Response{
			StatusCode:  http.StatusOK,
			ContentType: contentTypeText,
			Body:        string(StatusSuccess) + "\n" + info.Version,
		}
	}
	return jsonResponse(info)
}

func jsonResponse(v interface{}) Response {
	body, err := json.Marshal(v)
	if err != nil {
		// Only plain string fields are marshalled here.
		body = []byte(`{"status":"FAIL","message":"internal error"}`)
	}
	return Response{
		StatusCode:  http.StatusOK,
		ContentType: contentTypeJSON,
		Body:        string(body),
	}
}
