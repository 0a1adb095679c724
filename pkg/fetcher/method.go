package fetcher

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Method is the closed set of HTTP verbs the fetcher supports.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodHead
)

var methodNames = map[Method]string{
	MethodGet:    http.MethodGet,
	MethodPost:   http.MethodPost,
	MethodPut:    http.MethodPut,
	MethodDelete: http.MethodDelete,
	MethodHead:   http.MethodHead,
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func (m Method) valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod converts a verb string into a Method. Unknown verbs are
// rejected with ErrUnsupportedMethod.
func ParseMethod(verb string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(verb)) {
	case http.MethodGet:
		return MethodGet, nil
	case http.MethodPost:
		return MethodPost, nil
	case http.MethodPut:
		return MethodPut, nil
	case http.MethodDelete:
		return MethodDelete, nil
	case http.MethodHead:
		return MethodHead, nil
	default:
		return 0, errkind.Wrap(fmt.Errorf("%q", verb), errkind.ErrUnsupportedMethod, "parse method")
	}
}
