package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/flopwatch/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    release_date,
    release_year,
    genre,
    distributor,
    budget,
    mpa_rating,
    total_gross,
    box_office,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Title       string
	ReleaseDate time.Time
	Genre       string
	Distributor *string
	Budget      *int64
	MpaRating   *string
	TotalGross  *int64
}

// MovieListFilters encapsulates search and pagination options.
type MovieListFilters struct {
	Query       *string
	Year        *int
	Genre       *string
	Distributor *string
	BudgetLTE   *int64
	MpaRating   *string
	Flop        *bool
	Limit       int
	Cursor      *MovieCursor
}

// MovieCursor allows stable pagination by created_at/id.
type MovieCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// MovieListResult returns the paginated payload.
type MovieListResult struct {
	Items      []domain.Movie
	NextCursor *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, release_date, genre, distributor, budget, mpa_rating, total_gross)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, params.Title, params.ReleaseDate, params.Genre,
		params.Distributor, params.Budget, params.MpaRating, params.TotalGross)
	return scanMovie(row)
}

// FindByKeys fetches movies matching title with optional releaseDate/genre to disambiguate.
func (r *MoviesRepository) FindByKeys(ctx context.Context, title string, releaseDate *time.Time, genre *string) ([]domain.Movie, error) {
	where := []string{"title = $1"}
	args := []interface{}{title}
	if releaseDate != nil {
		where = append(where, fmt.Sprintf("release_date = $%d", len(args)+1))
		args = append(args, *releaseDate)
	}
	if genre != nil {
		where = append(where, fmt.Sprintf("genre = $%d", len(args)+1))
		args = append(args, *genre)
	}

	query := fmt.Sprintf(`SELECT %s FROM movies WHERE %s ORDER BY created_at DESC`, movieColumns, strings.Join(where, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	return notFoundOnNoRows(scanMovie(r.pool.QueryRow(ctx, query, id)))
}

// GetByTitle fetches the movie matching a title. Ambiguous results return ErrNotFound.
func (r *MoviesRepository) GetByTitle(ctx context.Context, title string) (domain.Movie, error) {
	movies, err := r.FindByKeys(ctx, title, nil, nil)
	if err != nil {
		return domain.Movie{}, err
	}
	if len(movies) != 1 {
		return domain.Movie{}, ErrNotFound
	}
	return movies[0], nil
}

// MovieMetadataParams carries enrichment data. Nil fields keep the stored value.
type MovieMetadataParams struct {
	Distributor *string
	Budget      *int64
	MpaRating   *string
	TotalGross  *int64
	BoxOffice   *domain.BoxOffice
}

// UpdateMetadata merges optional metadata into a movie and replaces its box office payload.
func (r *MoviesRepository) UpdateMetadata(ctx context.Context, id string, params MovieMetadataParams) (domain.Movie, error) {
	boxOfficeJSON, err := marshalBoxOffice(params.BoxOffice)
	if err != nil {
		return domain.Movie{}, err
	}

	query := fmt.Sprintf(`
        UPDATE movies
        SET distributor = COALESCE($2, distributor),
            budget = COALESCE($3, budget),
            mpa_rating = COALESCE($4, mpa_rating),
            total_gross = COALESCE($5, total_gross),
            box_office = $6,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, id, params.Distributor, params.Budget, params.MpaRating, params.TotalGross, boxOfficeJSON)
	return notFoundOnNoRows(scanMovie(row))
}

// SetTotalGross overwrites the total gross of a movie. A nil value clears it.
func (r *MoviesRepository) SetTotalGross(ctx context.Context, id string, totalGross *int64) (domain.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies
        SET total_gross = $2,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	return notFoundOnNoRows(scanMovie(r.pool.QueryRow(ctx, query, id, totalGross)))
}

// FlopSummary counts the catalogue against domain.FlopThreshold.
func (r *MoviesRepository) FlopSummary(ctx context.Context) (domain.FlopSummary, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE total_gross IS NULL OR total_gross < $1)
        FROM movies
    `

	summary := domain.FlopSummary{Threshold: domain.FlopThreshold}
	if err := r.pool.QueryRow(ctx, query, domain.FlopThreshold).Scan(&summary.Total, &summary.Flops); err != nil {
		return domain.FlopSummary{}, fmt.Errorf("flop summary: %w", err)
	}
	summary.Hits = summary.Total - summary.Flops
	return summary, nil
}

// List returns movies that match the provided filters.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) (MovieListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	} else if filters.Limit > maxListLimit {
		filters.Limit = maxListLimit
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Query != nil && strings.TrimSpace(*filters.Query) != "" {
		q := "%" + strings.TrimSpace(*filters.Query) + "%"
		p := arg(q)
		where = append(where, fmt.Sprintf("(title ILIKE %s OR distributor ILIKE %s)", p, p))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("release_year = %s", arg(*filters.Year)))
	}
	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		where = append(where, fmt.Sprintf("genre ILIKE %s", arg(strings.TrimSpace(*filters.Genre))))
	}
	if filters.Distributor != nil && strings.TrimSpace(*filters.Distributor) != "" {
		where = append(where, fmt.Sprintf("distributor ILIKE %s", arg(strings.TrimSpace(*filters.Distributor))))
	}
	if filters.BudgetLTE != nil {
		where = append(where, fmt.Sprintf("budget <= %s", arg(*filters.BudgetLTE)))
	}
	if filters.MpaRating != nil && strings.TrimSpace(*filters.MpaRating) != "" {
		where = append(where, fmt.Sprintf("mpa_rating ILIKE %s", arg(strings.TrimSpace(*filters.MpaRating))))
	}
	if filters.Flop != nil {
		where = append(where, flopCondition(*filters.Flop, arg(domain.FlopThreshold)))
	}
	if filters.Cursor != nil {
		cursorCreated := arg(filters.Cursor.CreatedAt)
		cursorID := arg(filters.Cursor.ID)
		where = append(where, fmt.Sprintf("(created_at, id) < (%s, %s)", cursorCreated, cursorID))
	}

	var qb strings.Builder
	qb.WriteString("SELECT ")
	qb.WriteString(movieColumns)
	qb.WriteString(" FROM movies")
	if len(where) > 0 {
		qb.WriteString(" WHERE ")
		qb.WriteString(strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY created_at DESC, id DESC")
	fmt.Fprintf(&qb, " LIMIT %d", filters.Limit)

	rows, err := r.pool.Query(ctx, qb.String(), args...)
	if err != nil {
		return MovieListResult{}, err
	}
	items, err := collectMovies(rows)
	if err != nil {
		return MovieListResult{}, err
	}
	if items == nil {
		items = make([]domain.Movie, 0)
	}

	var nextCursor *string
	if len(items) == filters.Limit {
		last := items[len(items)-1]
		token, err := encodeCursor(MovieCursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return MovieListResult{}, err
		}
		nextCursor = &token
	}

	return MovieListResult{Items: items, NextCursor: nextCursor}, nil
}

// flopCondition mirrors domain.IsFlop in SQL.
func flopCondition(flop bool, threshold string) string {
	if flop {
		return fmt.Sprintf("(total_gross IS NULL OR total_gross < %s)", threshold)
	}
	return fmt.Sprintf("(total_gross IS NOT NULL AND total_gross >= %s)", threshold)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	var results []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie         domain.Movie
		boxOfficeJSON []byte
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.ReleaseYear,
		&movie.Genre,
		&movie.Distributor,
		&movie.Budget,
		&movie.MpaRating,
		&movie.TotalGross,
		&boxOfficeJSON,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}

	if len(boxOfficeJSON) > 0 {
		var box domain.BoxOffice
		if err := json.Unmarshal(boxOfficeJSON, &box); err != nil {
			return domain.Movie{}, fmt.Errorf("decode box office: %w", err)
		}
		movie.BoxOffice = &box
	}

	return movie, nil
}

func notFoundOnNoRows(movie domain.Movie, err error) (domain.Movie, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Movie{}, ErrNotFound
	}
	return movie, err
}

func marshalBoxOffice(boxOffice *domain.BoxOffice) ([]byte, error) {
	if boxOffice == nil {
		return nil, nil
	}
	return json.Marshal(boxOffice)
}

func encodeCursor(c MovieCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token into a MovieCursor.
func DecodeCursor(token string) (*MovieCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor MovieCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	return &cursor, nil
}
