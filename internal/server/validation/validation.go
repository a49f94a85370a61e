// Package validation проверяет входные данные HTTP-запросов.
//
// Схемы описаны тегами validate на структурах из internal/shared/models,
// проверку выполняет go-playground/validator. Любое нарушение возвращается
// как *errors.ValidationError со списком issues (field, rule, message),
// где field — имя поля во внешнем контракте (json или query).
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Struct проверяет v по тегам validate.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	issues := make([]serr.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, serr.Issue{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return serr.NewValidationError(issues...)
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be >= " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be <= " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

// DecodeJSON читает тело запроса в dst и проверяет его по тегам.
//
// maxBytes > 0 ограничивает размер тела. strict запрещает неизвестные поля.
// Синтаксически битый JSON, пустое тело или мусор после объекта дают ErrBadJSON,
// неизвестное поле или неверный тип поля дают *ValidationError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64, strict bool) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return serr.NewValidationError(serr.Issue{
				Field:   typeErr.Field,
				Rule:    "type",
				Message: "must be " + jsonType(typeErr.Type),
			})
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return serr.NewValidationError(serr.Issue{
				Field:   field,
				Rule:    "unknown",
				Message: "unknown field",
			})
		default:
			return fmt.Errorf("%w: %v", serr.ErrBadJSON, err)
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after json object", serr.ErrBadJSON)
	}

	return Struct(dst)
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.Kind().String()
	}
}

// Query заполняет dst (указатель на структуру) из query-параметров по тегам
// query, подставляя значения из тега default, и проверяет результат.
//
// Поддерживаются поля string и int. Не-числовое значение для int даёт issue с rule "int".
func Query(r *http.Request, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: query target must be a struct pointer", serr.ErrInternal)
	}
	rv = rv.Elem()
	rt := rv.Type()

	q := r.URL.Query()
	var issues []serr.Issue

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := f.Tag.Get("query")
		if name == "" {
			continue
		}

		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			raw = f.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				issues = append(issues, serr.Issue{Field: name, Rule: "int", Message: "must be an integer"})
				continue
			}
			fv.SetInt(n)
		default:
			return fmt.Errorf("%w: unsupported query field kind %s", serr.ErrInternal, fv.Kind())
		}
	}

	if len(issues) > 0 {
		return serr.NewValidationError(issues...)
	}
	return Struct(dst)
}

// UUID разбирает параметр пути. Ошибка — *ValidationError с rule "uuid".
func UUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, serr.NewValidationError(serr.Issue{
			Field:   field,
			Rule:    "uuid",
			Message: "must be a valid uuid",
		})
	}
	return id, nil
}
