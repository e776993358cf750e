package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway/migrations"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
)

// Postgres implements Gateway over the remote Postgres store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens the remote store and applies the embedded migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	g := &Postgres{db: db}
	if err := g.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return g, nil
}

func (g *Postgres) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, g.db, ".")
}

func (g *Postgres) Close() error {
	return g.db.Close()
}

// withReadRetry runs fn, giving connection-level failures a couple of
// bounded backoff attempts. Server-side rejections are never retried.
func withReadRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && isTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (g *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, username, full_name, role, unit
	          FROM profiles
	          ORDER BY full_name ASC`

	var result []models.User

	err := withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := g.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Unit); err != nil {
				return err
			}
			result = append(result, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, classify("list users", err)
	}
	return result, nil
}

const recordColumns = `id, title, sector, unit, date::text, type, target_unit,
	before_state, before_images, content, after_images, benefits,
	impact_description, cost, views, attachment_name, attachment_url,
	created_by, created_at, updated_at, status, history`

func scanRecord(rows *sql.Rows) (models.Record, error) {
	var r models.Record
	var beforeImages, afterImages, benefits, history []byte
	err := rows.Scan(
		&r.ID, &r.Title, &r.Sector, &r.Unit, &r.Date, &r.Kind, &r.SourceUnit,
		&r.BeforeDesc, &beforeImages, &r.AfterDesc, &afterImages, &benefits,
		&r.Impact, &r.Cost, &r.Views, &r.AttachmentName, &r.AttachmentURL,
		&r.AuthorID, &r.CreatedAt, &r.UpdatedAt, &r.Status, &history,
	)
	if err != nil {
		return r, err
	}

	if err := json.Unmarshal(beforeImages, &r.BeforeImages); err != nil {
		return r, fmt.Errorf("decode before_images: %w", err)
	}
	if err := json.Unmarshal(afterImages, &r.AfterImages); err != nil {
		return r, fmt.Errorf("decode after_images: %w", err)
	}
	if err := json.Unmarshal(benefits, &r.Benefits); err != nil {
		return r, fmt.Errorf("decode benefits: %w", err)
	}
	if err := json.Unmarshal(history, &r.History); err != nil {
		return r, fmt.Errorf("decode history: %w", err)
	}

	return r, nil
}

func (g *Postgres) ListRecords(ctx context.Context) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + `
	          FROM kaizens
	          ORDER BY created_at DESC`

	var result []models.Record

	err := withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := g.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			r, err := scanRecord(rows)
			if err != nil {
				return err
			}
			result = append(result, r)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, classify("list records", err)
	}
	return result, nil
}

// payloadValues flattens a payload to column/value pairs, honoring
// OmitAttachment for schemas that predate the attachment columns.
func payloadValues(p RecordPayload) ([]string, []any, error) {
	beforeImages, err := json.Marshal(p.BeforeImages)
	if err != nil {
		return nil, nil, err
	}
	afterImages, err := json.Marshal(p.AfterImages)
	if err != nil {
		return nil, nil, err
	}
	benefits, err := json.Marshal(p.Benefits)
	if err != nil {
		return nil, nil, err
	}
	history, err := json.Marshal(p.History)
	if err != nil {
		return nil, nil, err
	}

	cols := []string{
		"title", "sector", "unit", "date", "type", "target_unit",
		"before_state", "before_images", "content", "after_images",
		"benefits", "impact_description", "cost",
		"created_by", "status", "history", "updated_at",
	}
	vals := []any{
		p.Title, string(p.Sector), p.Unit, p.Date, string(p.Kind), p.SourceUnit,
		p.BeforeDesc, beforeImages, p.AfterDesc, afterImages,
		benefits, p.Impact, p.Cost,
		p.AuthorID, string(p.Status), history, p.UpdatedAt,
	}

	if !p.OmitAttachment {
		cols = append(cols, "attachment_name", "attachment_url")
		vals = append(vals, p.AttachmentName, p.AttachmentURL)
	}

	return cols, vals, nil
}

func (g *Postgres) InsertRecord(ctx context.Context, p RecordPayload) error {
	cols, vals, err := payloadValues(p)
	if err != nil {
		return classify("insert record", err)
	}

	query := "INSERT INTO kaizens ("
	for i, c := range cols {
		if i > 0 {
			query += ", "
		}
		query += c
	}
	query += ") VALUES ("
	for i := range cols {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
	}
	query += ")"

	if _, err := g.db.ExecContext(ctx, query, vals...); err != nil {
		return classify("insert record", err)
	}
	return nil
}

func (g *Postgres) UpdateRecord(ctx context.Context, id string, p RecordPayload) error {
	cols, vals, err := payloadValues(p)
	if err != nil {
		return classify("update record", err)
	}

	query := "UPDATE kaizens SET "
	for i, c := range cols {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", c, i+1)
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(cols)+1)
	vals = append(vals, id)

	res, err := g.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return classify("update record", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classify("update record", sql.ErrNoRows)
	}
	return nil
}

func (g *Postgres) UpdateRecordStatus(ctx context.Context, id string, status models.Status) error {
	query := `UPDATE kaizens SET status = $2, updated_at = now() WHERE id = $1`

	res, err := g.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return classify("update record status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classify("update record status", sql.ErrNoRows)
	}
	return nil
}

// IncrementViews bumps the counter server-side so it stays monotonic and
// independent of the edit path.
func (g *Postgres) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE kaizens SET views = views + 1 WHERE id = $1`

	if _, err := g.db.ExecContext(ctx, query, id); err != nil {
		return classify("increment views", err)
	}
	return nil
}

func (g *Postgres) InsertUser(ctx context.Context, p UserPayload) error {
	query := `INSERT INTO profiles (username, password_hash, full_name, role, unit)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := g.db.ExecContext(ctx, query, p.Username, p.PasswordHash, p.FullName, string(p.Role), p.Unit)
	if err != nil {
		return classify("insert user", err)
	}
	return nil
}

// DeleteUser removes a profile. The authored-records precondition is
// re-checked inside the same transaction so a record created between the
// caller's check and the delete still blocks it.
func (g *Postgres) DeleteUser(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var n int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM kaizens WHERE created_by = $1 AND status <> 'DELETED'`, id).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			return &Error{Kind: KindPermission, Op: "delete user",
				Err: fmt.Errorf("user still authors %d records", n)}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})

	if err != nil {
		var ge *Error
		if errors.As(err, &ge) {
			return ge
		}
		return classify("delete user", err)
	}
	return nil
}

func (g *Postgres) CountRecordsByAuthor(ctx context.Context, authorID string) (int, error) {
	query := `SELECT count(*) FROM kaizens WHERE created_by = $1 AND status <> 'DELETED'`

	var n int
	err := withReadRetry(ctx, func(ctx context.Context) error {
		return g.db.QueryRowContext(ctx, query, authorID).Scan(&n)
	})
	if err != nil {
		return 0, classify("count records by author", err)
	}
	return n, nil
}

func (g *Postgres) GetUserCredentials(ctx context.Context, username string) (models.User, string, error) {
	query := `SELECT id, username, full_name, role, unit, password_hash
	          FROM profiles
	          WHERE username = $1`

	var u models.User
	var hash string
	err := g.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Unit, &hash)
	if err != nil {
		return models.User{}, "", classify("get user credentials", err)
	}
	return u, hash, nil
}
