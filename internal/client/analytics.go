package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

// RoleStat distribución de un rol sobre el total.
type RoleStat struct {
	Role       string
	Count      int
	Percentage int // redondeado, sobre el total de usuarios
}

// StatusStats distribución de estados Active/Inactive.
type StatusStats struct {
	Active             int
	Inactive           int
	ActivePercentage   int
	InactivePercentage int
}

// TrendPoint usuarios cuyo mes de nacimiento cae en el mes dado (clave YYYY-MM).
type TrendPoint struct {
	Month string
	Count int
}

// Summary son las métricas del dashboard calculadas sobre la vista del almacén.
type Summary struct {
	TotalUsers  int
	Roles       []RoleStat
	Status      StatusStats
	Trend       []TrendPoint
	Growth      int    // diferencia entre los dos últimos meses de la tendencia
	GrowthLabel string // etiqueta legible de esa comparación
}

// RoleDistribution cuenta usuarios por rol, en el orden Admin, Manager, User.
func RoleDistribution(users []dto.UserResponse) []RoleStat {
	order := []string{entity.RoleAdmin, entity.RoleManager, entity.RoleUser}
	counts := map[string]int{}
	for _, u := range users {
		counts[u.Role]++
	}
	total := len(users)
	if total == 0 {
		total = 1 // evita división por cero; porcentajes quedan en 0
	}
	stats := make([]RoleStat, 0, len(order))
	for _, role := range order {
		stats = append(stats, RoleStat{
			Role:       role,
			Count:      counts[role],
			Percentage: roundPct(counts[role], total),
		})
	}
	return stats
}

// StatusDistribution cuenta activos e inactivos.
func StatusDistribution(users []dto.UserResponse) StatusStats {
	var active, inactive int
	for _, u := range users {
		switch u.Status {
		case entity.StatusActive:
			active++
		case entity.StatusInactive:
			inactive++
		}
	}
	total := len(users)
	if total == 0 {
		total = 1
	}
	return StatusStats{
		Active:             active,
		Inactive:           inactive,
		ActivePercentage:   roundPct(active, total),
		InactivePercentage: roundPct(inactive, total),
	}
}

// MonthlyTrend agrupa por mes de nacimiento (DD/MM/YYYY) sobre los últimos
// seis meses hasta now.
func MonthlyTrend(users []dto.UserResponse, now time.Time) []TrendPoint {
	months := make([]string, 0, 6)
	counts := map[string]int{}
	for i := 5; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
		months = append(months, key)
		counts[key] = 0
	}

	for _, u := range users {
		parts := strings.Split(u.BirthDate, "/")
		if len(parts) != 3 {
			continue
		}
		key := parts[2] + "-" + parts[1]
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	trend := make([]TrendPoint, 0, len(months))
	for _, key := range months {
		trend = append(trend, TrendPoint{Month: key, Count: counts[key]})
	}
	return trend
}

// Summarize calcula todas las métricas de una vez.
func Summarize(users []dto.UserResponse, now time.Time) Summary {
	trend := MonthlyTrend(users, now)
	growth := 0
	label := "sin datos"
	if len(trend) >= 2 {
		last := trend[len(trend)-1]
		prev := trend[len(trend)-2]
		growth = last.Count - prev.Count
		label = fmt.Sprintf("%s (%d) -> %s (%d)", prev.Month, prev.Count, last.Month, last.Count)
	}
	return Summary{
		TotalUsers:  len(users),
		Roles:       RoleDistribution(users),
		Status:      StatusDistribution(users),
		Trend:       trend,
		Growth:      growth,
		GrowthLabel: label,
	}
}

func roundPct(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}
