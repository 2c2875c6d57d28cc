package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jujunior/juniorsworld/internal/domain/travel"
	"github.com/jujunior/juniorsworld/internal/observability"
)

const postColumns = `id, title, slug, content, country, flag, date, images, published, translations, author, created_at, updated_at`

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PostsRepo) Create(ctx context.Context, p travel.Post) error {
	err := observe(r.prom, "posts.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO travel_posts(`+postColumns+`)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			p.ID, p.Title, p.Slug, p.Content, p.Country, p.Flag, p.Date,
			p.Images, p.Published, p.Translations, p.Author, p.CreatedAt, p.UpdatedAt)

		return execErr
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return travel.ErrSlugTaken
		}

		return err
	}

	return nil
}

// GetBySlug returns the published post with that slug. Drafts never
// surface on this path.
func (r *PostsRepo) GetBySlug(ctx context.Context, slug string) (travel.Post, error) {
	var p travel.Post

	err := observe(r.prom, "posts.get_by_slug", func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT `+postColumns+` FROM travel_posts WHERE slug = $1 AND published = TRUE`, slug)

		var scanErr error
		p, scanErr = scanPost(row)

		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return travel.Post{}, travel.ErrNotFound
		}

		return travel.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) ListPublished(ctx context.Context) ([]travel.Post, error) {
	output := make([]travel.Post, 0)

	err := observe(r.prom, "posts.list_published", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+postColumns+` FROM travel_posts WHERE published = TRUE ORDER BY date DESC, created_at DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			p, err := scanPost(rows)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Update writes only the fields present in the request and refreshes
// updated_at. The SET clause is built the same way the list filters are:
// positional args appended per present field.
func (r *PostsRepo) Update(ctx context.Context, req travel.UpdatePostRequest) (travel.Post, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if req.Title != nil {
		addSet("title", *req.Title)
	}

	if req.Slug != nil {
		addSet("slug", *req.Slug)
	}

	if req.Content != nil {
		addSet("content", *req.Content)
	}

	if req.Country != nil {
		addSet("country", *req.Country)
	}

	if req.Flag != nil {
		addSet("flag", *req.Flag)
	}

	if req.Date != nil {
		addSet("date", *req.Date)
	}

	if req.Images != nil {
		addSet("images", *req.Images)
	}

	if req.Published != nil {
		addSet("published", *req.Published)
	}

	if req.Translations != nil {
		addSet("translations", *req.Translations)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE travel_posts SET %s WHERE id = $%d RETURNING `+postColumns,
		strings.Join(sets, ", "), argsPosition)

	args = append(args, req.ID)

	var p travel.Post

	err := observe(r.prom, "posts.update", func() error {
		row := r.pool.QueryRow(ctx, query, args...)

		var scanErr error
		p, scanErr = scanPost(row)

		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return travel.Post{}, travel.ErrNotFound
		}

		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return travel.Post{}, travel.ErrSlugTaken
		}

		return travel.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := observe(r.prom, "posts.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx, `DELETE FROM travel_posts WHERE id = $1`, id)

		return execErr
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return travel.ErrNotFound
	}

	return nil
}

func scanPost(row pgx.Row) (travel.Post, error) {
	var p travel.Post

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Country,
		&p.Flag,
		&p.Date,
		&p.Images,
		&p.Published,
		&p.Translations,
		&p.Author,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	return p, err
}
