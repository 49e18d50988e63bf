package ui

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"autoeda/adapters/kaggle"
	"autoeda/domain/core"
	"autoeda/domain/dataset"
	"autoeda/internal/profile"
	"autoeda/internal/report"
	"autoeda/ports"
)

const historyLimit = 20

// Tab labels, used to reopen the right input panel after a failed submit
const (
	tabUpload = "upload"
	tabURL    = "url"
	tabKaggle = "kaggle"
)

// indexView backs the landing page
type indexView struct {
	ActiveTab     string
	Error         string
	Notice        string
	HasCredential bool
	MaxUploadMB   int64
	Reports       []reportItem
	History       []historyItem
}

type reportItem struct {
	ID        string
	Name      string
	FileName  string
	Rows      int
	Cols      int
	CreatedAt time.Time
}

type historyItem struct {
	Source      string
	Reference   string
	Name        string
	Rows        int
	Cols        int
	Fingerprint string
	CreatedAt   time.Time
}

// resultsView backs the page shown after a successful run
type resultsView struct {
	Name    string
	Source  string
	Reports []resultReport
	Issues  []string
}

type resultReport struct {
	ID       string
	Name     string
	FileName string
	Rows     int
	Cols     int
	Headers  []string
	Preview  [][]string
	Hidden   int
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderIndex(w, r, http.StatusOK, indexView{ActiveTab: tabUpload})
}

// renderIndex fills the shared page sections and writes the page. Failed
// runs render through here too, so existing reports and the run history
// stay visible next to the error banner.
func (a *App) renderIndex(w http.ResponseWriter, r *http.Request, status int, view indexView) {
	view.MaxUploadMB = a.maxUploadBytes >> 20
	if _, err := a.credentials.Load(); err == nil {
		view.HasCredential = true
	}
	for _, rep := range a.reports.list() {
		view.Reports = append(view.Reports, reportItem{
			ID:        rep.ID.String(),
			Name:      rep.Name,
			FileName:  rep.FileName,
			Rows:      rep.Rows,
			Cols:      rep.Cols,
			CreatedAt: rep.CreatedAt,
		})
	}
	records, err := a.history.ListRuns(r.Context(), historyLimit)
	if err != nil {
		a.logger.Warn("Failed to load run history: %v", err)
	}
	for _, rec := range records {
		view.History = append(view.History, historyItem{
			Source:      rec.Source,
			Reference:   rec.Reference,
			Name:        rec.Name,
			Rows:        rec.Rows,
			Cols:        rec.Cols,
			Fingerprint: rec.Fingerprint.Short(),
			CreatedAt:   rec.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		a.logger.Error("Template index.html: %v", err)
	}
}

func (a *App) renderIndexError(w http.ResponseWriter, r *http.Request, tab string, err error) {
	a.logger.Warn("Run failed: %v", err)
	a.renderIndex(w, r, statusFor(err), indexView{ActiveTab: tab, Error: errorMessage(err)})
}

// handleUpload generates a report from an uploaded file
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		reason := "no file uploaded"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			reason = fmt.Sprintf("upload exceeds the %d MB limit", a.maxUploadBytes>>20)
		}
		a.renderIndexError(w, r, tabUpload, core.NewValidationError("dataset", reason))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.renderIndexError(w, r, tabUpload, core.NewValidationError("dataset", "could not read uploaded file"))
		return
	}
	a.runReport(w, r, tabUpload, dataset.LocalFile{Name: header.Filename, Data: data})
}

// handleURL generates a report from a remote link
func (a *App) handleURL(w http.ResponseWriter, r *http.Request) {
	raw := trimFormValue(r, "url")
	if raw == "" {
		a.renderIndexError(w, r, tabURL, core.NewValidationError("url", "enter a link to a data file"))
		return
	}
	a.runReport(w, r, tabURL, dataset.RemoteURL{Raw: raw})
}

// handleKaggle generates one or more reports from a Kaggle dataset
func (a *App) handleKaggle(w http.ResponseWriter, r *http.Request) {
	ref := trimFormValue(r, "ref")
	if ref == "" {
		a.renderIndexError(w, r, tabKaggle, core.NewValidationError("ref", "enter a dataset as owner/name"))
		return
	}

	var mode dataset.CombineMode
	switch m := trimFormValue(r, "mode"); m {
	case "", "merge":
		mode = dataset.MergeAll{}
	case "single":
		name := trimFormValue(r, "file")
		if name == "" {
			a.renderIndexError(w, r, tabKaggle, core.NewValidationError("file", "name the file to read"))
			return
		}
		mode = dataset.SingleFile{Name: name}
	case "each":
		mode = dataset.EachSeparately{Names: splitNames(r.FormValue("files"))}
	default:
		a.renderIndexError(w, r, tabKaggle, core.NewValidationError("mode", "must be single, merge or each"))
		return
	}
	a.runReport(w, r, tabKaggle, dataset.RemoteDataset{Ref: ref, Mode: mode})
}

// handleCredentials stores Kaggle credentials, taken from an uploaded
// kaggle.json or from the username and key fields
func (a *App) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		a.renderIndexError(w, r, tabKaggle, core.NewValidationError("credentials", "could not read the form"))
		return
	}
	cred, err := credentialFromRequest(r)
	if err != nil {
		a.renderIndexError(w, r, tabKaggle, err)
		return
	}
	if _, err := a.datasets.Authenticate(r.Context(), &cred); err != nil {
		a.renderIndexError(w, r, tabKaggle, err)
		return
	}
	a.logger.Info("Stored dataset service credentials for %s", cred.Username)
	a.renderIndex(w, r, http.StatusOK, indexView{
		ActiveTab: tabKaggle,
		Notice:    fmt.Sprintf("Kaggle credentials saved for %s", cred.Username),
	})
}

func credentialFromRequest(r *http.Request) (ports.Credential, error) {
	if file, _, err := r.FormFile("credentials"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return ports.Credential{}, core.NewValidationError("credentials", "could not read the uploaded file")
		}
		return kaggle.ParseCredential(data)
	}
	username := trimFormValue(r, "username")
	key := trimFormValue(r, "key")
	if username == "" || key == "" {
		return ports.Credential{}, core.NewValidationError("credentials", "upload kaggle.json or enter username and key")
	}
	return ports.Credential{Username: username, Key: key}, nil
}

// runReport drives one run: resolve the source, profile each resulting
// dataset and render its report. Earlier reports are never touched, so a
// failure here leaves them in place.
func (a *App) runReport(w http.ResponseWriter, r *http.Request, tab string, source dataset.InputSource) {
	ctx := r.Context()
	result, err := a.pipeline.Resolve(ctx, source, nil)
	if err != nil {
		a.renderIndexError(w, r, tab, err)
		return
	}

	view := resultsView{Name: result.Name, Source: result.Source}
	for _, issue := range result.Issues {
		view.Issues = append(view.Issues, fmt.Sprintf("%s: %s", issue.File, errorMessage(issue.Err)))
	}

	now := time.Now()
	var lastErr error
	for _, out := range result.Outputs {
		summary, err := profile.Profile(out.Name, out.Frame)
		if err != nil {
			lastErr = err
			view.Issues = append(view.Issues, fmt.Sprintf("%s: %s", out.Name, errorMessage(err)))
			continue
		}
		html, err := a.renderer.Render(summary, now)
		if err != nil {
			lastErr = err
			view.Issues = append(view.Issues, fmt.Sprintf("%s: %s", out.Name, errorMessage(err)))
			continue
		}

		rep := &Report{
			ID:        core.ReportID(core.NewID()),
			RunID:     core.RunID(core.NewID()),
			Name:      out.Name,
			FileName:  report.FileName(out.Name),
			HTML:      html,
			Rows:      out.Frame.NumRows(),
			Cols:      out.Frame.NumCols(),
			CreatedAt: now,
		}
		a.reports.put(rep)

		record := ports.RunRecord{
			ID:          rep.RunID,
			Source:      result.Source,
			Reference:   result.Reference,
			Name:        out.Name,
			Rows:        rep.Rows,
			Cols:        rep.Cols,
			Fingerprint: out.Frame.Fingerprint(),
			CreatedAt:   now,
		}
		if err := a.history.SaveRun(ctx, record); err != nil {
			a.logger.Warn("Failed to record run %s: %v", rep.RunID, err)
		}
		view.Reports = append(view.Reports, a.resultReport(rep, out.Frame))
	}

	if len(view.Reports) == 0 {
		a.renderIndexError(w, r, tab, lastErr)
		return
	}
	a.renderTemplate(w, "results.html", view)
}

// resultReport builds the per-dataset result block with a short preview of
// the underlying rows. Missing cells display as NA.
func (a *App) resultReport(rep *Report, frame *dataset.Frame) resultReport {
	n := frame.NumRows()
	if n > a.previewRows {
		n = a.previewRows
	}
	preview := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := frame.Row(i)
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell.Missing {
				cells[j] = "NA"
			} else {
				cells[j] = cell.Raw
			}
		}
		preview = append(preview, cells)
	}
	return resultReport{
		ID:       rep.ID.String(),
		Name:     rep.Name,
		FileName: rep.FileName,
		Rows:     rep.Rows,
		Cols:     rep.Cols,
		Headers:  frame.ColumnNames(),
		Preview:  preview,
		Hidden:   frame.NumRows() - n,
	}
}

// Report access handlers

func (a *App) handleReportView(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookupReport(w, r)
	if !ok {
		return
	}
	a.renderTemplate(w, "report_view.html", reportItem{
		ID:        rep.ID.String(),
		Name:      rep.Name,
		FileName:  rep.FileName,
		Rows:      rep.Rows,
		Cols:      rep.Cols,
		CreatedAt: rep.CreatedAt,
	})
}

func (a *App) handleReportRaw(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rep.HTML)
}

func (a *App) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.FileName))
	w.Write(rep.HTML)
}

func (a *App) lookupReport(w http.ResponseWriter, r *http.Request) (*Report, bool) {
	id, err := core.ParseReportID(chi.URLParam(r, "id"))
	if err == nil {
		var rep *Report
		if rep, err = a.reports.get(id); err == nil {
			return rep, true
		}
	}
	a.logger.Debug("Report lookup failed: %v", err)
	http.Error(w, "Report not found", http.StatusNotFound)
	return nil, false
}

// splitNames turns a comma or newline separated file list into names
func splitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	return names
}

// errorMessage maps run failures to the banner text shown on the page
func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrUnsupportedFormat):
		return "Unsupported file type. Use a .csv, .txt, .xlsx or .json file."
	case errors.Is(err, core.ErrMissingCapability):
		return "Legacy .xls workbooks cannot be read. Save the file as .xlsx and try again."
	case errors.Is(err, core.ErrMalformedContent):
		return "The file could not be parsed. Check that the contents match the file extension."
	case errors.Is(err, core.ErrShareLink):
		return "That Google Drive link was not recognized. Copy the file share link and try again."
	case errors.Is(err, core.ErrNotRawContent):
		return "The URL returned a web page rather than raw data. Link to the raw file contents."
	case errors.Is(err, core.ErrHTTPStatus):
		return fmt.Sprintf("The remote server refused the download (%s).", err)
	case errors.Is(err, core.ErrNetwork):
		return "Could not reach that URL. Check the address and try again."
	case errors.Is(err, core.ErrNoCredential):
		return "No Kaggle credentials are configured. Save your kaggle.json under the Kaggle tab first."
	case errors.Is(err, core.ErrEmptyDataset):
		return "That dataset has no csv files to analyze."
	case errors.Is(err, core.ErrUnknownFile):
		return "The requested file is not part of that dataset."
	case errors.Is(err, core.ErrNoReadableFiles):
		return "None of the files in that dataset could be read."
	default:
		return err.Error()
	}
}

// statusFor picks the response status for a failed run. The page is still
// rendered, with the error banner, whatever the status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrNoCredential):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrShareLink):
		return http.StatusBadRequest
	case core.IsRemoteError(err):
		return http.StatusBadGateway
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
