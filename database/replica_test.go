package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoBackend = errors.New("no backend in tests")

// recordingPool is a gorm.ConnPool that only notes which connection a query reached.
type recordingPool struct {
	name    string
	queried *[]string
}

func (p *recordingPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errNoBackend
}

func (p *recordingPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	*p.queried = append(*p.queried, p.name)
	return nil, errNoBackend
}

func (p *recordingPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	*p.queried = append(*p.queried, p.name)
	return nil, errNoBackend
}

func (p *recordingPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	*p.queried = append(*p.queried, p.name)
	return nil
}

func newReplicatedDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	var queried []string
	db, err := gorm.Open(
		postgres.New(postgres.Config{Conn: &recordingPool{name: "primary", queried: &queried}}),
		&gorm.Config{Logger: logger.Discard},
	)
	require.NoError(t, err)

	replica := postgres.New(postgres.Config{Conn: &recordingPool{name: "replica", queried: &queried}})
	require.NoError(t, useReplica(db, replica))
	return db, &queried
}

func TestTagRepoFindAllReadsPrimary(t *testing.T) {
	db, queried := newReplicatedDB(t)

	_, err := NewTagRepo(db).FindAll(context.Background())

	assert.ErrorIs(t, err, errNoBackend)
	assert.Equal(t, []string{"primary"}, *queried)
}

func TestBlogEntryRepoFindAllReadsReplica(t *testing.T) {
	db, queried := newReplicatedDB(t)

	_, err := NewBlogEntryRepo(db).FindAll(context.Background())

	assert.ErrorIs(t, err, errNoBackend)
	assert.Equal(t, []string{"replica"}, *queried)
}
