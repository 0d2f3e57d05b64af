package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

// UserRepository defines persistence access for customers, agents and admins.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListActiveAgents returns active agents with skills and in-progress
	// workload populated, ordered by workload then first name.
	ListActiveAgents(ctx context.Context) ([]domain.User, error)
	ListActiveAdmins(ctx context.Context) ([]domain.User, error)
	GetAgentWorkload(ctx context.Context, agentID string) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at, last_login_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, first_name, last_name, role, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, password_hash=$2, first_name=$3, last_name=$4, role=$5,
            is_active=$6, last_login_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.LastLoginAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, arg), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListActiveAgents(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role,
               u.is_active, u.created_at, u.updated_at, u.last_login_at,
               COUNT(t.id) FILTER (WHERE t.status = 'IN_PROGRESS') AS workload
        FROM users u
        LEFT JOIN tickets t ON t.assigned_agent_id = u.id
        WHERE u.role = 'AGENT' AND u.is_active
        GROUP BY u.id
        ORDER BY workload ASC, u.first_name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.Role,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLoginAt,
			&user.Workload,
		); err != nil {
			return nil, err
		}
		agents = append(agents, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSkills(ctx, agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *userRepository) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role='ADMIN' AND is_active ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		admins = append(admins, user)
	}
	return admins, rows.Err()
}

func (r *userRepository) GetAgentWorkload(ctx context.Context, agentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE assigned_agent_id=$1 AND status='IN_PROGRESS'`
	var count int
	if err := r.pool.QueryRow(ctx, query, agentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) attachSkills(ctx context.Context, agents []domain.User) error {
	if len(agents) == 0 {
		return nil
	}
	ids := make([]string, len(agents))
	index := make(map[string]int, len(agents))
	for i := range agents {
		ids[i] = agents[i].ID
		index[agents[i].ID] = i
	}

	const query = `
        SELECT user_id, skill_name, proficiency
        FROM agent_skills WHERE user_id = ANY($1)
        ORDER BY skill_name ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var skill domain.AgentSkill
		if err := rows.Scan(&userID, &skill.Name, &skill.Proficiency); err != nil {
			return err
		}
		if i, ok := index[userID]; ok {
			agents[i].Skills = append(agents[i].Skills, skill)
		}
	}
	return rows.Err()
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
}
