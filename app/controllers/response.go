package controllers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"toyblog/app/logging"
	"toyblog/app/middleware"
	"toyblog/app/services"

	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds JSON and form bodies.
const maxBodyBytes = 1 << 20

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sendSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	sendJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// sendError writes err as a JSON envelope. Unexpected errors are logged and
// replaced by fallback so no internals reach the client.
func sendError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error, fallback string) {
	status := statusFor(err)
	body := envelope{Success: false, Message: fallback}
	if se, ok := services.AsError(err); ok && status != http.StatusInternalServerError {
		body.Message = se.Message
		body.Errors = se.Fields
	}
	if status == http.StatusInternalServerError {
		logFailure(log, r, fallback, err)
	}
	sendJSON(w, status, body)
}

func logFailure(log logrus.FieldLogger, r *http.Request, msg string, err error) {
	logging.LogError(log, msg, err, logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.RequestIDFrom(r.Context()),
	})
}

// decode fills dst from a JSON body or, for any other content type, from
// form values keyed by the json tag of each string field.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil {
			return services.NewValidationError("Invalid request body", nil, nil)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return services.NewValidationError("Invalid form body", nil, nil)
	}
	return bindForm(r, dst)
}

func bindForm(r *http.Request, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bindForm: want pointer to struct, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || field.Type.Kind() != reflect.String {
			continue
		}
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			v.Field(i).SetString(values[0])
		}
	}
	return nil
}
