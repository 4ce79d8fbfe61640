package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Response is the uniform envelope returned by every JSON endpoint.
// Callers branch on Success; Message is for human display only.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
}

func OK(data interface{}, message string) Response {
	return Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
}

func Fail(message string) Response {
	return Response{
		Success:   false,
		Data:      nil,
		Message:   message,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
}

// FormatCurrency renders an amount as a display string, e.g. "MK 5,500.00".
func FormatCurrency(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("MK %s%s.%s", sign, b.String(), frac)
}
