// Package gui is the desktop front end of the editor
package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/clips"
	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/media"
	"github.com/kikiluvv/slopeditor/internal/overlays"
	"github.com/kikiluvv/slopeditor/internal/playback"
	"github.com/kikiluvv/slopeditor/internal/project"
	"github.com/kikiluvv/slopeditor/internal/scoring"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

var (
	videoExts = []string{".mp4", ".mov", ".mkv", ".webm"}
	audioExts = []string{".mp3", ".wav", ".m4a", ".ogg"}
	imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".pdf"}
)

// Editor is one editor window
type Editor struct {
	logger    zerolog.Logger
	ctx       context.Context
	headless  *editor.Headless
	prober    *media.Prober
	library   *project.Library
	scorer    scoring.Scorer
	window    fyne.Window
	meta      editor.Meta
	projectID string

	clips      []clips.Clip
	list       *widget.List
	slider     *widget.Slider
	timeLabel  *widget.Label
	videoLabel *widget.Label
	status     *widget.Label
}

// Run opens the editor window and blocks until it is closed
func Run(ctx context.Context, logger zerolog.Logger, cfg *config.Config, library *project.Library) error {
	logger = logger.With().Str("component", "gui").Logger()

	prober, err := media.NewProber(logger, cfg.Media)
	if err != nil {
		logger.Warn().Err(err).Msg("media probing disabled")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ed := &Editor{
		logger:   logger,
		ctx:      ctx,
		headless: editor.NewHeadless(logger, cfg),
		prober:   prober,
		library:  library,
		scorer:   scoring.NewHeuristicScorer(),
		meta:     editor.Meta{Platform: "TikTok"},
	}
	defer ed.headless.Engine.Close()

	a := app.NewWithID("com.slopeditor.editor")
	ed.window = a.NewWindow("slopeditor")
	ed.window.Resize(fyne.NewSize(960, 640))
	ed.window.SetContent(ed.build())

	ed.headless.Player.OnTick(func(st playback.Status) {
		ed.headless.Engine.Frame()
		fyne.Do(func() { ed.showTime(st) })
	})
	go ed.headless.Player.Run(ctx)

	ed.window.ShowAndRun()
	return nil
}

func (ed *Editor) engine() *editor.Engine {
	return ed.headless.Engine
}

func (ed *Editor) build() fyne.CanvasObject {
	ed.videoLabel = widget.NewLabel("No video loaded")
	ed.timeLabel = widget.NewLabel("00:00 / 00:00")
	ed.status = widget.NewLabel("")

	ed.slider = widget.NewSlider(0, 1)
	ed.slider.Step = 0.01
	ed.slider.OnChangeEnded = func(v float64) {
		ed.engine().Seek(v)
	}

	ed.list = widget.NewList(
		func() int { return len(ed.clips) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			c := ed.clips[i]
			o.(*widget.Label).SetText(fmt.Sprintf("[%s] %s  %s-%s", c.Type, c.Name, util.FormatClock(c.Start), util.FormatClock(c.End)))
		},
	)
	ed.list.OnSelected = func(i widget.ListItemID) {
		c := ed.clips[i]
		if c.Type == clips.TypeVideo {
			ed.do(ed.engine().SwitchActiveVideo(c.ID))
			return
		}
		ed.do(ed.engine().SelectClip(c.ID))
	}

	effectSelect := widget.NewSelect(overlays.Effects.List(), func(name string) {
		_, err := ed.engine().ApplyEffect(name)
		ed.do(err)
	})
	effectSelect.PlaceHolder = "Add effect"

	filterSelect := widget.NewSelect(overlays.Filters.List(), func(name string) {
		_, err := ed.engine().ApplyFilter(name)
		ed.do(err)
	})
	filterSelect.PlaceHolder = "Filter"

	presetSelect := widget.NewSelect(overlays.TextPresets.List(), func(name string) {
		ed.do(ed.engine().ApplyTextPreset(name))
	})
	presetSelect.PlaceHolder = "Text preset"

	platformSelect := widget.NewSelect([]string{"TikTok", "Instagram", "YouTube Shorts"}, func(p string) {
		ed.meta.Platform = p
	})
	platformSelect.SetSelected(ed.meta.Platform)

	mediaBar := container.NewHBox(
		widget.NewButton("Import Video", func() { ed.openFile(videoExts, ed.importVideo(true)) }),
		widget.NewButton("Add Video", func() { ed.openFile(videoExts, ed.importVideo(false)) }),
		widget.NewButton("Add Audio", func() { ed.openFile(audioExts, ed.addAudio) }),
		widget.NewButton("Add Image", func() { ed.openFile(imageExts, ed.addImage) }),
		widget.NewButton("Add Text", func() {
			_, err := ed.engine().AddText(overlays.Size{})
			ed.do(err)
		}),
	)

	edit := container.NewHBox(
		widget.NewButton("Play/Pause", func() {
			ed.engine().TogglePlay()
			ed.refresh()
		}),
		widget.NewButton("Cut", func() {
			_, _, err := ed.engine().CutSelected()
			ed.do(err)
		}),
		widget.NewButton("Delete", func() {
			ed.do(ed.deleteSelected())
		}),
		widget.NewButton("Undo", func() { ed.do(ed.engine().Undo()) }),
		widget.NewButton("Redo", func() { ed.do(ed.engine().Redo()) }),
		effectSelect,
		filterSelect,
		presetSelect,
	)

	files := container.NewHBox(
		widget.NewButton("Save", ed.save),
		widget.NewButton("Open Project", func() { ed.openFile([]string{".json"}, ed.openProject) }),
		platformSelect,
		widget.NewButton("Export", ed.export),
	)

	top := container.NewVBox(ed.videoLabel, ed.slider, ed.timeLabel, mediaBar, edit, files)
	return container.NewBorder(top, ed.status, nil, nil, ed.list)
}

// do reports a rejected action and refreshes the views
func (ed *Editor) do(err error) {
	if err != nil {
		dialog.ShowError(errors.New(editor.UserMessage(err)), ed.window)
	}
	ed.refresh()
}

func (ed *Editor) refresh() {
	st := ed.engine().Status()
	ed.clips = ed.engine().State().Clips
	ed.list.Refresh()
	ed.showTime(st.Playback)

	if st.Playback.Src != "" {
		ed.videoLabel.SetText(fmt.Sprintf("%s (%s)", st.Title, filepath.Base(st.Playback.Src)))
	}
	filter := st.ActiveFilter
	if filter == "" {
		filter = "none"
	}
	ed.status.SetText(fmt.Sprintf("%s | selected %d | filter %s | undo %d / redo %d",
		st.Playback.StateName, st.Selected, filter, st.UndoDepth, st.RedoDepth))
}

func (ed *Editor) showTime(st playback.Status) {
	if st.Duration > 0 && ed.slider.Max != st.Duration {
		ed.slider.Max = st.Duration
		ed.slider.Refresh()
	}
	ed.slider.SetValue(st.CurrentTime)
	ed.timeLabel.SetText(util.FormatClock(st.CurrentTime) + " / " + util.FormatClock(st.Duration))
}

func (ed *Editor) deleteSelected() error {
	id := ed.engine().Status().Selected
	if id == 0 {
		return editor.ErrNoSelection
	}
	return ed.engine().DeleteClip(id)
}

func (ed *Editor) openFile(exts []string, fn func(path string, r fyne.URIReadCloser) error) {
	fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ed.window)
			return
		}
		if ur == nil {
			return
		}
		defer ur.Close()
		ed.do(fn(ur.URI().Path(), ur))
	}, ed.window)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	fd.Show()
}

func (ed *Editor) duration(path string) (float64, error) {
	if ed.prober == nil {
		return 0, errors.New("ffprobe is not available")
	}
	ctx, cancel := context.WithTimeout(ed.ctx, 30*time.Second)
	defer cancel()
	return ed.prober.Duration(ctx, path)
}

func (ed *Editor) importVideo(replace bool) func(string, fyne.URIReadCloser) error {
	return func(path string, _ fyne.URIReadCloser) error {
		d, err := ed.duration(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		if replace {
			_, err = ed.engine().ImportVideo(name, path, d)
			ed.projectID = ""
		} else {
			_, err = ed.engine().AddVideo(name, path, d)
		}
		return err
	}
}

func (ed *Editor) addAudio(path string, _ fyne.URIReadCloser) error {
	d, err := ed.duration(path)
	if err != nil {
		return err
	}
	_, err = ed.engine().AddAudio(filepath.Base(path), path, d)
	return err
}

func (ed *Editor) addImage(path string, r fyne.URIReadCloser) error {
	req := editor.ImageRequest{
		Name: filepath.Base(path),
		Src:  path,
		MIME: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}

	if req.MIME == "application/pdf" {
		info, err := media.InspectPDF(path)
		if err != nil {
			return err
		}
		req.TotalPages = info.TotalPages
	} else if cfg, _, err := image.DecodeConfig(r); err == nil {
		req.Dimensions = &overlays.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	}

	_, err := ed.engine().AddImage(req)
	return err
}

func (ed *Editor) openProject(_ string, r fyne.URIReadCloser) error {
	p, err := project.Decode(r)
	if err != nil {
		return err
	}
	ed.engine().LoadState(p.State(), p.Title, p.VideoSrc)
	ed.meta = p.Meta()
	ed.projectID = ""
	return nil
}

func (ed *Editor) save() {
	title := widget.NewEntry()
	title.SetText(ed.engine().Title())

	dialog.ShowForm("Save project", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Title", title)},
		func(ok bool) {
			if !ok {
				return
			}
			ed.engine().SetTitle(title.Text)
			ed.do(ed.saveProject())
		}, ed.window)
}

func (ed *Editor) saveProject() error {
	st := ed.engine().Status()

	thumb := ""
	if ed.prober != nil && util.FileExists(st.Playback.Src) {
		var err error
		if thumb, err = ed.prober.Thumbnail(ed.ctx, st.Playback.Src, st.TrimStart); err != nil {
			ed.logger.Warn().Err(err).Msg("thumbnail failed")
		}
	}

	p, err := project.Build(project.Session{
		ID:        ed.projectID,
		Title:     st.Title,
		Meta:      ed.meta,
		State:     ed.engine().State(),
		Duration:  st.Playback.Duration,
		VideoSrc:  st.Playback.Src,
		Thumbnail: thumb,
	}, time.Now())
	if err != nil {
		return err
	}
	if err := ed.library.Upsert(p); err != nil {
		return err
	}
	ed.projectID = p.ID
	dialog.ShowInformation("Saved", fmt.Sprintf("%q saved to the library", p.Title), ed.window)
	return nil
}

func (ed *Editor) export() {
	progress := dialog.NewCustomWithoutButtons("Export",
		container.NewVBox(widget.NewLabel("Analyzing video..."), widget.NewProgressBarInfinite()), ed.window)
	progress.Show()

	comp := ed.engine().Composition(ed.meta)
	go func() {
		report, err := ed.scorer.Score(ed.ctx, comp)
		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				dialog.ShowError(err, ed.window)
				return
			}
			ed.showReport(report)
		})
	}()
}

func (ed *Editor) showReport(r scoring.Report) {
	var b strings.Builder
	fmt.Fprintf(&b, "Trend %.0f (%s)  Engagement %.0f (%s)  Virality %.0f (%s)  Quality %.0f (%s)\n\n",
		r.Scores.Trend, r.Tiers["trend"], r.Scores.Engagement, r.Tiers["engagement"],
		r.Scores.Virality, r.Tiers["virality"], r.Scores.Quality, r.Tiers["quality"])
	b.WriteString(r.Virality)
	if len(r.Recommendations) > 0 {
		b.WriteString("\n\nRecommendations:\n- " + strings.Join(r.Recommendations, "\n- "))
	}
	b.WriteString("\n\nTips:\n- " + strings.Join(r.Tips, "\n- "))

	label := widget.NewLabel(b.String())
	label.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(label)
	scroll.SetMinSize(fyne.NewSize(560, 420))
	dialog.NewCustom("Export report", "Close", scroll, ed.window).Show()
}
