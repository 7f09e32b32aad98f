package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldcrew/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
}

// New opens the connection pool. The parameter type mirrors the
// database section of the application config.
func New(config struct {
	Host     string `yaml:"host" env:"DB_HOST,required"`
	Port     int    `yaml:"port" env:"DB_PORT,required"`
	User     string `yaml:"user" env:"DB_USER,required"`
	Password string `yaml:"password" env:"DB_PASSWORD,required"`
	DBName   string `yaml:"dbname" env:"DB_NAME,required"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE,required"`
}) (*DB, error) {
	// Create a configuration object
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Configure connection pool and statement cache
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &DB{pool}, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isTransient reports whether err is a serialization failure or
// deadlock that a fresh transaction may resolve.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

// withRetry runs fn up to three times, retrying only transient
// transaction failures.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		select {
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// GetEmployee retrieves an employee by ID
func (db *DB) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	query := `
		SELECT id, full_name, role, phone, discord_id, created_at
		FROM employees
		WHERE id = $1`

	emp := &models.Employee{}
	err := db.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.FullName,
		&emp.Role,
		&emp.Phone,
		&emp.DiscordID,
		&emp.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// GetProject retrieves a project with its geofence columns
func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	query := `
		SELECT id, name, address, geofence_lat, geofence_lng,
			geofence_radius_m, geofence_strict, geofence_variance_m, created_at
		FROM projects
		WHERE id = $1`

	proj := &models.Project{}
	err := db.QueryRow(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Address,
		&proj.GeofenceLat,
		&proj.GeofenceLng,
		&proj.GeofenceRadiusM,
		&proj.GeofenceStrict,
		&proj.GeofenceVarM,
		&proj.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return proj, nil
}

// CountProjectTasks counts how many of the given task IDs belong to the project
func (db *DB) CountProjectTasks(ctx context.Context, projectID int64, taskIDs []int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tasks
		WHERE project_id = $1 AND id = ANY($2)`

	var n int
	err := db.QueryRow(ctx, query, projectID, taskIDs).Scan(&n)
	return n, err
}

// GetTaskByID retrieves a task by its ID
func (db *DB) GetTaskByID(ctx context.Context, taskID int64) (*models.Task, error) {
	query := `
		SELECT id, project_id, name, description, tags, created_at
		FROM tasks
		WHERE id = $1`

	task := &models.Task{}
	err := db.QueryRow(ctx, query, taskID).Scan(
		&task.ID,
		&task.ProjectID,
		&task.Name,
		&task.Description,
		&task.Tags,
		&task.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return task, err
}
