package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
)

const checkAnswerColumns = `id, task_id, question_id, label, field_type, bool_value, text_value, image_path, created_at`

// SQLiteCheckAnswerRepo is insert-only; answers disappear with their task
// through ON DELETE CASCADE.
type SQLiteCheckAnswerRepo struct {
	db db.DBTX
}

func NewSQLiteCheckAnswerRepo(db db.DBTX) *SQLiteCheckAnswerRepo {
	return &SQLiteCheckAnswerRepo{db: db}
}

func (r *SQLiteCheckAnswerRepo) Create(ctx context.Context, a *domain.TaskCheckAnswer) error {
	var boolVal any
	if a.BoolValue != nil {
		boolVal = boolToInt(*a.BoolValue)
	}
	query := `INSERT INTO task_check_answers (` + checkAnswerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.TaskID, nullableStr(a.QuestionID), a.Label, string(a.FieldType),
		boolVal, nullableStr(a.TextValue), nullableStr(a.ImagePath),
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting check answer: %w", err)
	}
	return nil
}

func (r *SQLiteCheckAnswerRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskCheckAnswer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+checkAnswerColumns+` FROM task_check_answers WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing check answers: %w", err)
	}
	defer rows.Close()

	var answers []*domain.TaskCheckAnswer
	for rows.Next() {
		var a domain.TaskCheckAnswer
		var questionID, textVal, imagePath sql.NullString
		var boolVal sql.NullInt64
		var fieldType, createdAtStr string
		if err := rows.Scan(&a.ID, &a.TaskID, &questionID, &a.Label, &fieldType,
			&boolVal, &textVal, &imagePath, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning check answer row: %w", err)
		}
		a.QuestionID = strFromNull(questionID)
		a.FieldType = domain.FieldType(fieldType)
		if boolVal.Valid {
			b := intToBool(int(boolVal.Int64))
			a.BoolValue = &b
		}
		a.TextValue = strFromNull(textVal)
		a.ImagePath = strFromNull(imagePath)
		a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		answers = append(answers, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating check answers: %w", err)
	}
	return answers, nil
}
