package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/project"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.UnixMilli(1_700_000_000_000)

type harness struct {
	srv    *Server
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.History.Debounce = 0
	cfg.Server.Workers = 4
	cfg.Server.ExportStep = time.Millisecond
	cfg.Server.ExportIncrement = 25

	lib := project.OpenLibrary(zerolog.Nop(), filepath.Join(t.TempDir(), "library.json"), cfg.Library.StorageKey)
	srv, err := New(zerolog.Nop(), cfg, lib, WithClock(func() time.Time { return fixedNow }), WithoutPlayers())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(srv.Close)
	return &harness{srv: srv, router: srv.Router()}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) expect(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d: %s", w.Code, code, w.Body.String())
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return v
}

func (h *harness) session(t *testing.T) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/sessions", createSessionRequest{Title: "My Edit", Platform: "TikTok"})
	h.expect(t, w, http.StatusCreated)
	return "/sessions/" + decode[createSessionResponse](t, w).ID
}

func (h *harness) importVideo(t *testing.T, base string) clips.Clip {
	t.Helper()
	w := h.do(t, http.MethodPost, base+"/video", mediaRequest{Name: "a.mp4", Src: "a.mp4", Duration: 10, Import: true})
	h.expect(t, w, http.StatusCreated)
	return decode[clips.Clip](t, w)
}

func errorText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)

	w := h.do(t, http.MethodGet, base+"/state", nil)
	h.expect(t, w, http.StatusOK)
	if st := decode[editor.State](t, w); len(st.Clips) != 0 {
		t.Errorf("new session has clips: %+v", st.Clips)
	}

	w = h.do(t, http.MethodGet, base+"/status", nil)
	h.expect(t, w, http.StatusOK)
	if st := decode[editor.Status](t, w); st.Title != "My Edit" || st.Playback.StateName != "idle" {
		t.Errorf("status = %+v", st)
	}

	h.expect(t, h.do(t, http.MethodDelete, base, nil), http.StatusNoContent)
	w = h.do(t, http.MethodGet, base+"/state", nil)
	h.expect(t, w, http.StatusNotFound)
	if got := errorText(t, w); got != "session not found" {
		t.Errorf("error = %q", got)
	}
}

func TestEditingFlow(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)
	video := h.importVideo(t, base)

	w := h.do(t, http.MethodPost, base+"/text", nil)
	h.expect(t, w, http.StatusCreated)
	if c := decode[clips.Clip](t, w); c.Type != clips.TypeText || c.End != 5 {
		t.Errorf("text clip = %+v", c)
	}

	w = h.do(t, http.MethodPost, base+"/effects", nameRequest{Name: "Zoom In"})
	h.expect(t, w, http.StatusCreated)
	if c := decode[clips.Clip](t, w); c.Type != clips.TypeEffect || c.EffectName != "Zoom In" {
		t.Errorf("effect clip = %+v", c)
	}

	h.expect(t, h.do(t, http.MethodPost, base+"/filter", nameRequest{Name: "Vintage"}), http.StatusCreated)
	w = h.do(t, http.MethodGet, base+"/status", nil)
	if st := decode[editor.Status](t, w); st.ActiveFilter != "Vintage" {
		t.Errorf("active filter = %q", st.ActiveFilter)
	}

	path := base + "/clips/" + itoa(video.ID)
	w = h.do(t, http.MethodPatch, path+"/trim", map[string]float64{"start": 2, "end": 8})
	h.expect(t, w, http.StatusOK)
	if c := decode[clips.Clip](t, w); c.Start != 2 || c.End != 8 {
		t.Errorf("trimmed clip = %+v", c)
	}

	w = h.do(t, http.MethodPost, path+"/cut", map[string]float64{"at": 5})
	h.expect(t, w, http.StatusCreated)
	parts := decode[[]clips.Clip](t, w)
	if len(parts) != 2 || parts[0].End != 5 || parts[1].Start != 5 {
		t.Errorf("cut parts = %+v", parts)
	}

	w = h.do(t, http.MethodGet, base+"/history", nil)
	actions := decode[map[string][]string](t, w)["actions"]
	if len(actions) != 6 || actions[5] != "Cut clip" {
		t.Errorf("history = %v", actions)
	}

	w = h.do(t, http.MethodPost, base+"/undo", nil)
	h.expect(t, w, http.StatusOK)
	w = h.do(t, http.MethodGet, base+"/state", nil)
	if st := decode[editor.State](t, w); len(st.Clips) != 4 {
		t.Errorf("clips after undo = %d, want 4", len(st.Clips))
	}
	h.expect(t, h.do(t, http.MethodPost, base+"/redo", nil), http.StatusOK)
	w = h.do(t, http.MethodGet, base+"/state", nil)
	if st := decode[editor.State](t, w); len(st.Clips) != 5 {
		t.Errorf("clips after redo = %d, want 5", len(st.Clips))
	}
}

func TestOverlayEdits(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)
	h.importVideo(t, base)

	w := h.do(t, http.MethodPost, base+"/text", nil)
	text := decode[clips.Clip](t, w)

	w = h.do(t, http.MethodPatch, base+"/text/"+itoa(text.ID), map[string]any{"text": "Hello there", "position": map[string]float64{"x": 10, "y": 20}})
	h.expect(t, w, http.StatusOK)
	w = h.do(t, http.MethodGet, base+"/state", nil)
	st := decode[editor.State](t, w)
	if st.TextOverlays[0].Text != "Hello there" || st.TextOverlays[0].Position.X != 10 {
		t.Errorf("text overlay = %+v", st.TextOverlays[0])
	}

	w = h.do(t, http.MethodPost, base+"/text-style", stylePatch{Preset: "Title"})
	h.expect(t, w, http.StatusOK)
	w = h.do(t, http.MethodPost, base+"/text-style", stylePatch{Property: "fontSize", Value: "-3"})
	h.expect(t, w, http.StatusBadRequest)

	w = h.do(t, http.MethodGet, base+"/overlays?t=1", nil)
	h.expect(t, w, http.StatusOK)
	if o := decode[editor.Overlays](t, w); len(o.Texts) != 1 || !o.Texts[0].Style.Bold {
		t.Errorf("overlays at 1 = %+v", o)
	}
	w = h.do(t, http.MethodGet, base+"/overlays?t=9", nil)
	if o := decode[editor.Overlays](t, w); len(o.Texts) != 0 {
		t.Errorf("overlays at 9 = %+v", o)
	}
	h.expect(t, h.do(t, http.MethodGet, base+"/overlays?t=soon", nil), http.StatusBadRequest)

	w = h.do(t, http.MethodPost, base+"/image", imageRequest{Name: "doc.pdf", Src: "doc.pdf", MIME: "application/pdf", TotalPages: 3})
	h.expect(t, w, http.StatusCreated)
	img := decode[clips.Clip](t, w)
	w = h.do(t, http.MethodPatch, base+"/images/"+itoa(img.ID), map[string]int{"page": 7})
	h.expect(t, w, http.StatusOK)
	w = h.do(t, http.MethodGet, base+"/state", nil)
	if st := decode[editor.State](t, w); st.ImageOverlays[0].PDFPage != 3 {
		t.Errorf("pdf page = %d, want 3", st.ImageOverlays[0].PDFPage)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)

	w := h.do(t, http.MethodPost, base+"/text", nil)
	h.expect(t, w, http.StatusConflict)
	if got := errorText(t, w); got != "Import a video first." {
		t.Errorf("error = %q", got)
	}

	w = h.do(t, http.MethodPost, base+"/undo", nil)
	h.expect(t, w, http.StatusOK)
	if applied := decode[map[string]any](t, w)["applied"]; applied != false {
		t.Errorf("applied = %v", applied)
	}

	h.importVideo(t, base)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
		msg    string
	}{
		{"unknown effect", http.MethodPost, "/effects", nameRequest{Name: "Warp"}, http.StatusBadRequest, ""},
		{"missing clip", http.MethodPatch, "/clips/42/trim", map[string]float64{"start": 1, "end": 2}, http.StatusNotFound, "clip not found"},
		{"bad clip id", http.MethodDelete, "/clips/abc", nil, http.StatusBadRequest, ""},
		{"crop too small", http.MethodPost, "/crop", editor.CropData{Width: 5, Height: 5}, http.StatusBadRequest, "Please select a larger crop area"},
		{"bad media", http.MethodPost, "/image", imageRequest{Src: "x", MIME: "text/plain"}, http.StatusBadRequest, "Unsupported file type"},
		{"zero duration", http.MethodPost, "/audio", mediaRequest{Src: "a.mp3"}, http.StatusBadRequest, ""},
		{"missing overlay", http.MethodPatch, "/text/42", map[string]string{"text": "x"}, http.StatusNotFound, "overlay not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, tt.method, base+tt.path, tt.body)
			h.expect(t, w, tt.code)
			if tt.msg != "" {
				if got := errorText(t, w); got != tt.msg {
					t.Errorf("error = %q, want %q", got, tt.msg)
				}
			}
		})
	}
}

func TestExportStream(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)
	h.importVideo(t, base)
	h.do(t, http.MethodPost, base+"/text", nil)

	w := h.do(t, http.MethodGet, base+"/export?platform=Instagram", nil)
	h.expect(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}

	body := w.Body.String()
	if n := strings.Count(body, "event:progress"); n != 4 {
		t.Errorf("progress events = %d, want 4\n%s", n, body)
	}
	for _, want := range []string{`"progress":100`, "event:report", `"viralityPotential"`, "Instagram"} {
		if !strings.Contains(body, want) {
			t.Errorf("stream missing %q", want)
		}
	}
	if strings.Index(body, "event:report") < strings.LastIndex(body, "event:progress") {
		t.Error("report sent before progress finished")
	}
}

func TestSaveAndLibrary(t *testing.T) {
	h := newHarness(t)
	base := h.session(t)

	w := h.do(t, http.MethodPost, base+"/save", nil)
	h.expect(t, w, http.StatusConflict)

	h.importVideo(t, base)
	w = h.do(t, http.MethodPost, base+"/save", saveRequest{Title: "Beach Day"})
	h.expect(t, w, http.StatusCreated)
	saved := decode[project.Project](t, w)
	if saved.ID != "video_1700000000000" || saved.Title != "Beach Day" || saved.Duration != "00:10" {
		t.Errorf("saved = %+v", saved)
	}

	// saving again updates the same entry
	h.expect(t, h.do(t, http.MethodPost, base+"/save", nil), http.StatusCreated)
	w = h.do(t, http.MethodGet, "/library", nil)
	if list := decode[[]project.Project](t, w); len(list) != 1 {
		t.Fatalf("library = %d entries, want 1", len(list))
	}

	w = h.do(t, http.MethodGet, "/library/"+saved.ID+"/export", nil)
	h.expect(t, w, http.StatusOK)
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "beach-day-project.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := w.Body.String()

	other := h.session(t)
	w = h.do(t, http.MethodPost, other+"/load/"+saved.ID, nil)
	h.expect(t, w, http.StatusOK)
	if st := decode[editor.State](t, w); len(st.Clips) != 1 {
		t.Errorf("loaded clips = %d", len(st.Clips))
	}
	w = h.do(t, http.MethodGet, other+"/status", nil)
	if st := decode[editor.Status](t, w); st.Title != "Beach Day" || st.Playback.Src != "a.mp4" {
		t.Errorf("loaded status = %+v", st)
	}

	third := h.session(t)
	h.expect(t, h.do(t, http.MethodPost, third+"/import", exported), http.StatusOK)
	w = h.do(t, http.MethodPost, third+"/import", `{"clips": []}`)
	h.expect(t, w, http.StatusBadRequest)

	h.expect(t, h.do(t, http.MethodDelete, "/library/"+saved.ID, nil), http.StatusNoContent)
	h.expect(t, h.do(t, http.MethodDelete, "/library/"+saved.ID, nil), http.StatusNotFound)
	h.expect(t, h.do(t, http.MethodGet, "/library/"+saved.ID, nil), http.StatusNotFound)
}

func TestRequestID(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/healthz", nil)
	h.expect(t, w, http.StatusOK)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}

	w = h.do(t, http.MethodGet, "/catalog", nil)
	cat := decode[map[string][]string](t, w)
	if len(cat["effects"]) != 8 || len(cat["filters"]) != 7 {
		t.Errorf("catalog = %v", cat)
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
