package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, target string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContextDefaults(t *testing.T) {
	p := paramsFor(t, "/patients")
	if p.Limit != DefaultLimit {
		t.Errorf("default limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("default offset = %d, want 0", p.Offset)
	}
}

func TestFromContextClampsLimit(t *testing.T) {
	p := paramsFor(t, "/patients?limit=9999")
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want clamp to %d", p.Limit, MaxLimit)
	}

	p = paramsFor(t, "/patients?limit=-5")
	if p.Limit != DefaultLimit {
		t.Errorf("negative limit = %d, want default %d", p.Limit, DefaultLimit)
	}
}

func TestFromContextOffset(t *testing.T) {
	p := paramsFor(t, "/patients?limit=25&offset=50")
	if p.Limit != 25 || p.Offset != 50 {
		t.Errorf("got limit=%d offset=%d, want 25/50", p.Limit, p.Offset)
	}

	p = paramsFor(t, "/patients?offset=-1")
	if p.Offset != 0 {
		t.Errorf("negative offset = %d, want 0", p.Offset)
	}
}

func TestNewResponseHasMore(t *testing.T) {
	resp := NewResponse([]string{"a"}, 10, Params{Limit: 5, Offset: 0})
	if !resp.HasMore {
		t.Error("expected has_more=true for first page of 10")
	}

	resp = NewResponse([]string{"a"}, 10, Params{Limit: 5, Offset: 5})
	if resp.HasMore {
		t.Error("expected has_more=false for final page")
	}
}
