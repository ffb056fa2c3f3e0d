package errs

import (
	"errors"
	"strconv"
	"strings"
)

type CodeErrorI interface {
	ECode() int
	EMsg() string
	WithDetail(detail string) CodeError
	error
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{
		Code: code,
		Msg:  msg,
	}
}

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func (e *CodeError) ECode() int   { return e.Code }
func (e *CodeError) EMsg() string { return e.Msg }

func (e *CodeError) WithDetail(detail string) CodeError {
	var d string
	if e.Detail == "" {
		d = detail
	} else {
		d = e.Detail + ", " + detail
	}
	return CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: d,
	}
}

// Is matches by code so that wrapped and detailed copies of the same
// CodeError still compare equal under errors.Is.
func (e *CodeError) Is(err error) bool {
	var codeErr *CodeError
	if !errors.As(err, &codeErr) {
		return false
	}
	return e.Code == codeErr.Code
}

const initialCapacity = 3

func (e *CodeError) Error() string {
	v := make([]string, 0, initialCapacity)
	v = append(v, strconv.Itoa(e.Code), e.Msg)

	if e.Detail != "" {
		v = append(v, e.Detail)
	}

	return strings.Join(v, " ")
}
