package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type fileRepo struct {
	db  DB
	log logger.ILogger
}

func NewFileRepo(db DB, log logger.ILogger) storage.IFileStorage {
	return &fileRepo{db: db, log: log}
}

func (r *fileRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	out := *file
	query := `
		INSERT INTO files (file_id, path, filename, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, file.FileID, file.Path, file.Filename, file.FileType, file.FileSize).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.log.Error("failed to create file", logger.String("path", file.Path), logger.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *fileRepo) GetByID(ctx context.Context, id int64) (*models.File, error) {
	var f models.File
	query := `SELECT id, file_id, path, filename, file_type, file_size, created_at FROM files WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.FileID, &f.Path, &f.Filename, &f.FileType, &f.FileSize, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get file", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return &f, nil
}
