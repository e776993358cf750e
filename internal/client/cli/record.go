package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/kaizenlib/internal/client/export"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/views"
	"github.com/dmitrijs2005/kaizenlib/internal/filex"
)

// maxAttachmentBytes caps local files picked as attachments.
const maxAttachmentBytes = 10 << 20

// Show prints a single record in full and counts the view.
func (a *App) Show(ctx context.Context, id string) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	r := a.sync.Current().RecordByID(id)
	if r == nil || !views.Visible(r, a.user) {
		return fmt.Errorf("record %s not found", id)
	}

	if err := a.records.IncrementViews(ctx, id); err != nil {
		a.logger.Warn(ctx, "could not count view", "record_id", id, "error", err)
	}

	printlnFn(r.Title)
	printlnFn(fmt.Sprintf("Unit: %s   Sector: %s   Date: %s   Kind: %s", r.Unit, r.Sector, r.Date, r.Kind))
	if r.Kind == models.KindAdopted {
		printlnFn("Adopted from: " + r.SourceUnit)
	}
	printlnFn("Before: " + r.BeforeDesc)
	printlnFn("After:  " + r.AfterDesc)
	printlnFn(fmt.Sprintf("Benefits: %v   Cost: %.0f   Views: %d   Status: %s", r.Benefits, r.Cost, r.Views, r.Status))
	if r.Impact != "" {
		printlnFn("Impact: " + r.Impact)
	}
	if r.HasAttachment() {
		printlnFn(fmt.Sprintf("Attachment: %s (%s)", r.AttachmentName, r.AttachmentURL))
	}

	if author := a.sync.Current().UserByID(r.AuthorID); author != nil {
		printlnFn("Author: " + author.FullName)
	}

	for _, h := range r.History {
		printlnFn(fmt.Sprintf("  %s  %s by %s", h.Timestamp.Format("2006-01-02 15:04"), h.Action, h.ActorName))
	}
	return nil
}

// New walks the user through creating a record.
func (a *App) New(ctx context.Context) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	draft, err := a.promptDraft(nil)
	if err != nil {
		return err
	}
	return a.saveDraft(ctx, draft)
}

// Edit loads an existing record into a draft and walks through the same
// prompts, offering current values as defaults.
func (a *App) Edit(ctx context.Context, id string) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	r := a.sync.Current().RecordByID(id)
	if r == nil || !views.Visible(r, a.user) {
		return fmt.Errorf("record %s not found", id)
	}

	draft, err := a.promptDraft(r)
	if err != nil {
		return err
	}
	return a.saveDraft(ctx, draft)
}

func (a *App) saveDraft(ctx context.Context, draft *models.Draft) error {
	warning, err := a.records.Save(ctx, *a.user, draft)
	if err != nil {
		return err
	}
	if warning != "" {
		printlnFn("Warning: " + warning)
	}
	printlnFn("Saved")
	return nil
}

// promptDraft collects every submission field. When prev is non-nil its
// values are offered as defaults (Enter keeps them).
func (a *App) promptDraft(prev *models.Record) (*models.Draft, error) {
	draft := &models.Draft{}
	if prev != nil {
		draft.ID = prev.ID
		draft.AttachmentName = prev.AttachmentName
		draft.AttachmentURL = prev.AttachmentURL
		draft.BeforeImages = prev.BeforeImages
		draft.AfterImages = prev.AfterImages
	}

	var err error
	if draft.Title, err = a.promptText("Title", prevStr(prev, func(r *models.Record) string { return r.Title })); err != nil {
		return nil, err
	}

	units := make([]string, len(models.Units))
	copy(units, models.Units)
	idx, err := GetChoice(a.reader, "Unit", units, indexOf(units, prevStr(prev, func(r *models.Record) string { return r.Unit })), os.Stdout)
	if err != nil {
		return nil, err
	}
	draft.Unit = units[idx]

	sectors := make([]string, len(models.Sectors))
	for i, s := range models.Sectors {
		sectors[i] = string(s)
	}
	idx, err = GetChoice(a.reader, "Sector", sectors, indexOf(sectors, prevStr(prev, func(r *models.Record) string { return string(r.Sector) })), os.Stdout)
	if err != nil {
		return nil, err
	}
	draft.Sector = models.Sector(sectors[idx])

	if draft.Date, err = a.promptText("Date (YYYY-MM-DD)", prevStr(prev, func(r *models.Record) string { return r.Date })); err != nil {
		return nil, err
	}

	kinds := []string{string(models.KindOriginal), string(models.KindAdopted)}
	idx, err = GetChoice(a.reader, "Kind", kinds, indexOf(kinds, prevStr(prev, func(r *models.Record) string { return string(r.Kind) })), os.Stdout)
	if err != nil {
		return nil, err
	}
	draft.Kind = models.Kind(kinds[idx])

	if draft.Kind == models.KindAdopted {
		sources := make([]string, len(models.SourceUnits))
		copy(sources, models.SourceUnits)
		idx, err = GetChoice(a.reader, "Learned from", sources, indexOf(sources, prevStr(prev, func(r *models.Record) string { return r.SourceUnit })), os.Stdout)
		if err != nil {
			return nil, err
		}
		draft.SourceUnit = sources[idx]
	}

	if draft.BeforeDesc, err = a.promptMultiline("Situation before", prevStr(prev, func(r *models.Record) string { return r.BeforeDesc })); err != nil {
		return nil, err
	}
	if draft.AfterDesc, err = a.promptMultiline("Improvement after", prevStr(prev, func(r *models.Record) string { return r.AfterDesc })); err != nil {
		return nil, err
	}

	benefits := make([]string, len(models.Benefits))
	for i, b := range models.Benefits {
		benefits[i] = string(b)
	}
	picks, err := GetMultiChoice(a.reader, "Benefits", benefits, os.Stdout)
	if err != nil {
		return nil, err
	}
	for _, p := range picks {
		draft.Benefits = append(draft.Benefits, models.Benefit(benefits[p]))
	}

	if draft.Impact, err = a.promptMultiline("Impact description (optional)", prevStr(prev, func(r *models.Record) string { return r.Impact })); err != nil {
		return nil, err
	}

	costStr, err := a.promptText("Cost (VND)", prevStr(prev, func(r *models.Record) string { return strconv.FormatFloat(r.Cost, 'f', -1, 64) }))
	if err != nil {
		return nil, err
	}
	if costStr != "" {
		draft.Cost, err = strconv.ParseFloat(costStr, 64)
		if err != nil {
			return nil, fmt.Errorf("cost must be a number: %w", err)
		}
	}

	path, err := getSimpleText(a.reader, "Attachment file path (optional, Enter to skip)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := filex.ReadCapped(path, maxAttachmentBytes)
		if err != nil {
			return nil, err
		}
		draft.Upload = &models.AttachmentUpload{Name: filepath.Base(path), Data: data}
	}

	return draft, nil
}

// promptText asks for a single line; an empty answer keeps def.
func (a *App) promptText(label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func (a *App) promptMultiline(label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = label + " (empty keeps the current text)"
	}
	s, err := GetMultiline(a.reader, prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func prevStr(prev *models.Record, get func(*models.Record) string) string {
	if prev == nil {
		return ""
	}
	return get(prev)
}

func indexOf(options []string, val string) int {
	for i, o := range options {
		if o == val {
			return i
		}
	}
	return 0
}

// Hide takes a record off the shared listing without deleting it.
func (a *App) Hide(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, models.StatusHidden, "Hidden")
}

// Restore brings a hidden record back to the shared listing.
func (a *App) Restore(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, models.StatusActive, "Restored")
}

// Delete marks a record deleted after confirmation. Deletion is final.
func (a *App) Delete(ctx context.Context, id string) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	answer, err := getSimpleText(a.reader, "Delete is permanent. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}
	return a.setStatus(ctx, id, models.StatusDeleted, "Deleted")
}

func (a *App) setStatus(ctx context.Context, id string, status models.Status, done string) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	if err := a.records.UpdateStatus(ctx, *a.user, id, status); err != nil {
		return err
	}
	printlnFn(done)
	return nil
}

// Export writes the record as CSV into ./export and prints the path.
func (a *App) Export(ctx context.Context, id string) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	r := a.sync.Current().RecordByID(id)
	if r == nil || !views.Visible(r, a.user) {
		return fmt.Errorf("record %s not found", id)
	}

	data, err := export.CSV(r)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureSubdDir("export")
	if err != nil {
		return err
	}

	out := filepath.Join(dir, export.FileName(r))
	if err := os.WriteFile(out, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printlnFn("Exported to " + out)
	return nil
}

// Suggest asks the narrative assistant for an improvement write-up based
// on a short title and description.
func (a *App) Suggest(ctx context.Context) error {
	if a.user == nil {
		return errNotLoggedIn
	}
	if a.assist == nil {
		return fmt.Errorf("suggestions are not configured (set assist_endpoint)")
	}

	title, err := getSimpleText(a.reader, "Improvement title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Rough description", os.Stdout)
	if err != nil {
		return err
	}

	text, err := a.assist.Suggest(ctx, title, content)
	if err != nil {
		return err
	}
	printlnFn(text)
	return nil
}
