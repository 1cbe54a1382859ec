package vuln

import "errors"

var (
	// ErrNotFound 해당 CVE가 카탈로그에 없음
	ErrNotFound = errors.New("vulnerability not found")

	// ErrInvalidInput 구조적으로 잘못된 ID/윈도우/파라미터
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnavailable 신호 저장소 조회 실패 또는 타임아웃
	ErrBackendUnavailable = errors.New("signal source unavailable")
)
