package postgres

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name          TEXT NOT NULL,
	username      TEXT UNIQUE NOT NULL,
	email         TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	avatar        TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	birth_date    TEXT NOT NULL,
	phone         TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// seedUser es una fila del dataset de demostración, con el password en claro
// (se hashea al sembrar).
type seedUser struct {
	name     string
	username string
	email    string
	password string
	avatar   string
	role     string
	birth    string
	phone    string
	status   string
}

// Cuentas demo con credenciales conocidas + usuarios de muestra.
var seedUsers = []seedUser{
	{"Admin User", "admin", "admin@demo.com", "admin123", "https://i.pravatar.cc/150?u=1", entity.RoleAdmin, "15/03/1990", "+1234567890", entity.StatusActive},
	{"Manager User", "manager", "manager@demo.com", "manager123", "https://i.pravatar.cc/150?u=2", entity.RoleManager, "22/07/1985", "+1234567891", entity.StatusActive},
	{"Regular User", "user", "user@demo.com", "user123", "https://i.pravatar.cc/150?u=3", entity.RoleUser, "10/12/1992", "+1234567892", entity.StatusActive},
	{"John Doe", "johndoe", "john@example.com", "password123", "https://i.pravatar.cc/150?u=4", entity.RoleAdmin, "15/03/1990", "+1234567893", entity.StatusActive},
	{"Jane Smith", "janesmith", "jane@example.com", "password123", "https://i.pravatar.cc/150?u=5", entity.RoleManager, "22/07/1985", "+1234567894", entity.StatusActive},
	{"Bob Johnson", "bobjohnson", "bob@example.com", "password123", "https://i.pravatar.cc/150?u=6", entity.RoleUser, "10/12/1992", "+1234567895", entity.StatusInactive},
	{"Alice Brown", "alicebrown", "alice@example.com", "password123", "https://i.pravatar.cc/150?u=7", entity.RoleUser, "05/09/1988", "+1234567896", entity.StatusActive},
	{"Michael Chen", "mchen", "michael.chen@example.com", "password123", "https://i.pravatar.cc/150?u=8", entity.RoleManager, "18/11/1987", "+1234567897", entity.StatusActive},
	{"Sarah Wilson", "swilson", "sarah.wilson@example.com", "password123", "https://i.pravatar.cc/150?u=9", entity.RoleUser, "03/06/1993", "+1234567898", entity.StatusActive},
	{"David Martinez", "dmartinez", "david.martinez@example.com", "password123", "https://i.pravatar.cc/150?u=10", entity.RoleUser, "27/02/1991", "+1234567899", entity.StatusInactive},
}

// InitSchema crea la tabla users si no existe y, si está vacía, siembra el
// dataset de demostración. Es idempotente: un segundo arranque no duplica nada.
func InitSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("crear tabla users: %w", err)
	}

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("contar usuarios: %w", err)
	}
	if count > 0 {
		return nil
	}
	return seedDemoUsers(ctx, db)
}

func seedDemoUsers(ctx context.Context, db DB) error {
	query := `
		INSERT INTO users (name, username, email, password_hash, avatar, role, birth_date, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, s := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashear password de seed %q: %w", s.username, err)
		}
		if _, err := db.Exec(ctx, query,
			s.name, s.username, s.email, string(hash), s.avatar, s.role, s.birth, s.phone, s.status,
		); err != nil {
			return fmt.Errorf("sembrar usuario %q: %w", s.username, err)
		}
	}
	return nil
}
