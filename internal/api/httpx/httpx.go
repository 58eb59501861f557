// Package httpx reúne os utilitários HTTP compartilhados pelos handlers:
// decodificação validada do corpo, parâmetros de query e a resposta padronizada.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
)

// MaxBodyBytes limita o corpo aceito pelos handlers.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSONBody decodifica o corpo em dest, recusando campos desconhecidos, e
// aplica as tags `validate`. Erros saem como ValidationError com detalhe por campo.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidationError("Payload inválido.")
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return apperror.NewFieldValidationError("Payload inválido.", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "Campo obligatorio."
	case "min":
		return fmt.Sprintf("Debe ser al menos %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Debe ser como máximo %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s.", fe.Param())
	}
	return "Valor no válido."
}

// QueryInt64 lê um parâmetro inteiro opcional. Ausente devolve nil.
func QueryInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewFieldValidationError("Parâmetro de consulta inválido.", map[string]string{key: "Debe ser numérico."})
	}
	return &v, nil
}

// WriteJSON escreve data como JSON com o status informado.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// Respond envia a resposta de sucesso ou traduz err para a resposta de erro padronizada.
func Respond(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		if jsonErr := WriteJSON(w, successStatus, data); jsonErr != nil {
			log.Error("Falha ao codificar JSON de resposta", jsonErr)
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	_ = WriteJSON(w, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
		Fields:   apperror.FieldsOf(err),
	})
}
