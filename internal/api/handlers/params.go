package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ErrInvalidParam возвращается при некорректном параметре пути или запроса
var ErrInvalidParam = errors.New("handlers: invalid parameter")

// PathID извлекает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidParam
	}
	return id, nil
}

// QueryID извлекает необязательный положительный int64 из query параметра
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidParam
	}
	return &id, nil
}

// QueryString извлекает необязательный строковый query параметр
func QueryString(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// QueryBool извлекает необязательный булев query параметр (по умолчанию false)
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, ErrInvalidParam
	}
	return v, nil
}

// QueryInt извлекает необязательный неотрицательный int с значением по умолчанию
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ErrInvalidParam
	}
	return v, nil
}
