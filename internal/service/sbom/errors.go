package sbom

import "errors"

var (
	// ErrUnsupportedArchive 지원하지 않는 업로드 형식
	ErrUnsupportedArchive = errors.New("unsupported archive format")

	// ErrScanFailed sbom-tool 실행 또는 manifest 파싱 실패
	ErrScanFailed = errors.New("environment scan failed")
)
