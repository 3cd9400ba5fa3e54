package resume

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/notify"
)

// Download messages.
const (
	MsgPreparing  = "Preparing resume download..."
	MsgStarted    = "Resume download started!"
	MsgFailed     = "Error: Unable to download resume."
	MsgNoDocument = "Error: Unable to process resume download."
)

// DownloadTarget marks a navigation the browser should save rather than
// open.
const DownloadTarget = "download"

// Options configure Downloader.
type Options struct {
	ShareURL string
	// Buttons are the ids of the elements that start a download.
	Buttons []string
	// Href is where the browser collects the fetched document.
	Href string
}

// DefaultOptions are the page defaults.
func DefaultOptions() Options {
	return Options{
		Buttons: []string{"resume-download", "sidebar-resume-download"},
		Href:    "/resume",
	}
}

// Downloader wires the resume buttons. A click fetches the export off the
// page loop, then hands the document to the browser through a download
// navigation. Every outcome is reported with a toast.
type Downloader struct {
	component.Base

	opts    Options
	fetcher *Fetcher
	toast   *notify.Toaster

	ready  *Document
	cancel context.CancelFunc
}

// NewDownloader binds the resume buttons of the document.
func NewDownloader(ctx *component.Context, fetcher *Fetcher, toast *notify.Toaster, opts ...component.Option[Options]) *Downloader {
	d := &Downloader{
		Base:    component.NewBase(ctx, ctx.Doc.Body()),
		opts:    component.Apply(DefaultOptions(), opts...),
		fetcher: fetcher,
		toast:   toast,
	}
	d.Init(d)
	return d
}

// BindEvents listens on every configured button.
func (d *Downloader) BindEvents() {
	for _, id := range d.opts.Buttons {
		d.Listen(d.Doc().ByID(id), dom.Click, func(e *dom.Event) {
			e.PreventDefault()
			d.Start()
		})
	}
}

// Start begins a download. Each call starts a fresh fetch.
func (d *Downloader) Start() {
	if _, ok := ExtractFileID(d.opts.ShareURL); !ok {
		d.toast.Show(MsgNoDocument, notify.Error)
		return
	}
	d.toast.Show(MsgPreparing, notify.Info)

	fetchCtx, cancel := context.WithCancel(context.Background())
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = cancel
	post := d.Ctx().Post
	go func() {
		doc, err := d.fetcher.Fetch(fetchCtx, d.opts.ShareURL)
		post(func() { d.finish(doc, err) })
	}()
}

func (d *Downloader) finish(doc *Document, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		d.Log().Warn("resume download failed", zap.Error(err))
		d.toast.Show(MsgFailed, notify.Error)
		return
	}
	d.ready = doc
	d.Doc().Navigate(dom.Navigation{URL: d.opts.Href, Target: DownloadTarget})
	d.toast.Show(MsgStarted, notify.Success)
}

// Take returns the fetched document once and forgets it.
func (d *Downloader) Take() (*Document, bool) {
	doc := d.ready
	d.ready = nil
	return doc, doc != nil
}

// OnDestroy abandons an in-flight fetch.
func (d *Downloader) OnDestroy() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
