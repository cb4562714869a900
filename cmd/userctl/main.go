// userctl es el cliente de línea de comandos de la User Management API.
// Mantiene un almacén local reconciliado (usuarios propios + páginas del
// backend) persistido en CLIENT_STATE_DIR, igual que hacía el frontend
// con localStorage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/client"
	"github.com/tu-usuario/user-management-api/pkg/config"
	"github.com/tu-usuario/user-management-api/pkg/logger"
)

const usage = `uso: userctl <comando> [flags]

comandos:
  login        -email -password        iniciar sesión y guardar el token
  logout                               cerrar sesión y vaciar el almacén
  me                                   usuario de la sesión actual
  list         [-pages N]              cargar y mostrar N páginas (default 1)
  add          -name -username -email -birth [-phone -role] [-local]
  update       -id [-name -username -email -birth -phone -role -status -avatar]
  delete       -id
  bulk-role    -ids 1,3 -role Admin    cambio masivo de rol
  bulk-delete  -ids 1,3                borrado masivo
  import       -file users.csv         importar usuarios locales desde CSV
  export       -file out.csv           exportar la vista actual a CSV
  stats                                métricas del dashboard
  reset                                vaciar el almacén local`

type app struct {
	api     *client.API
	store   *client.Store
	storage *client.Storage
	log     *logger.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	storage, err := client.NewStorage(cfg.Client.StateDir)
	if err != nil {
		fatal("%v", err)
	}
	api := client.NewAPI(cfg.Client.APIBaseURL)
	if token, err := storage.LoadToken(); err == nil && token != "" {
		api.SetToken(token)
	}
	store, err := client.NewStore(api, storage)
	if err != nil {
		fatal("abrir almacén local: %v", err)
	}

	a := &app{api: api, store: store, storage: storage, log: log}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsAuthError() {
			// Sesión inválida: limpiar credenciales, como hace el frontend.
			_ = storage.ClearToken()
			fatal("sesión expirada o sin permiso (%s); vuelve a hacer login", apiErr.Message)
		}
		fatal("%v", err)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.storage.ClearToken(); err != nil {
			return err
		}
		return a.store.Reset()
	case "me":
		u, err := a.api.Me(ctx)
		if err != nil {
			return err
		}
		printUsers([]dto.UserResponse{*u})
		return nil
	case "list":
		return a.list(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "bulk-role":
		return a.bulkRole(ctx, args)
	case "bulk-delete":
		return a.bulkDelete(ctx, args)
	case "import":
		return a.importCSV(args)
	case "export":
		return a.exportCSV(ctx, args)
	case "stats":
		return a.stats(ctx)
	case "reset":
		return a.store.Reset()
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("login: -email y -password son requeridos")
	}
	out, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.storage.SaveToken(out.Token); err != nil {
		return err
	}
	fmt.Printf("sesión iniciada como %s (%s)\n", out.User.Name, out.User.Role)
	return nil
}

// list carga las páginas 1..N en orden (nunca en paralelo: el almacén
// rechaza cargas concurrentes) y muestra la vista reconciliada.
func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	pages := fs.Int("pages", 1, "páginas a cargar")
	_ = fs.Parse(args)
	for n := 1; n <= *pages; n++ {
		if err := a.store.FetchPage(ctx, n); err != nil {
			return err
		}
		if !a.store.HasMore() {
			break
		}
	}
	printUsers(a.store.View())
	fmt.Printf("página %d, hasMore=%v\n", a.store.Page(), a.store.HasMore())
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "nombre")
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email")
	birth := fs.String("birth", "", "fecha de nacimiento DD/MM/YYYY")
	phone := fs.String("phone", "", "teléfono")
	role := fs.String("role", "", "rol (default User)")
	local := fs.Bool("local", false, "solo en el almacén local, sin backend")
	_ = fs.Parse(args)
	if *name == "" || *username == "" || *email == "" || *birth == "" {
		return errors.New("add: -name, -username, -email y -birth son requeridos")
	}

	if *local {
		u := dto.UserResponse{
			ID:        time.Now().UnixMilli(),
			Name:      *name,
			Username:  *username,
			Email:     *email,
			Role:      orDefault(*role, "User"),
			BirthDate: *birth,
			Phone:     *phone,
			Status:    "Active",
		}
		if err := a.store.AddLocal(u); err != nil {
			return err
		}
		fmt.Printf("usuario local %d añadido\n", u.ID)
		return nil
	}

	created, err := a.api.CreateUser(ctx, dto.CreateUserRequest{
		Name: *name, Username: *username, Email: *email,
		BirthDate: *birth, Phone: *phone, Role: *role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("usuario %d creado en el backend\n", created.ID)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int64("id", 0, "id del usuario")
	name := fs.String("name", "", "")
	username := fs.String("username", "", "")
	email := fs.String("email", "", "")
	birth := fs.String("birth", "", "")
	phone := fs.String("phone", "", "")
	role := fs.String("role", "", "")
	status := fs.String("status", "", "")
	avatar := fs.String("avatar", "", "")
	_ = fs.Parse(args)
	if *id == 0 {
		return errors.New("update: -id es requerido")
	}
	in := dto.UpdateUserRequest{
		Name:      optional(*name),
		Username:  optional(*username),
		Email:     optional(*email),
		BirthDate: optional(*birth),
		Phone:     optional(*phone),
		Role:      optional(*role),
		Status:    optional(*status),
		Avatar:    optional(*avatar),
	}
	updated, err := a.api.UpdateUser(ctx, *id, in)
	if err != nil {
		return err
	}
	if err := a.store.Update(*updated); err != nil && !errors.Is(err, client.ErrNotInStore) {
		return err
	}
	printUsers([]dto.UserResponse{*updated})
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "id del usuario")
	_ = fs.Parse(args)
	if *id == 0 {
		return errors.New("delete: -id es requerido")
	}
	out, err := a.api.DeleteUser(ctx, *id)
	if err != nil {
		return err
	}
	if err := a.store.BulkDelete([]int64{*id}); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", out.Message, out.User.Username)
	return nil
}

func (a *app) bulkRole(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bulk-role", flag.ExitOnError)
	ids := fs.String("ids", "", "ids separados por coma")
	role := fs.String("role", "", "rol a asignar")
	_ = fs.Parse(args)
	parsed, err := parseIDs(*ids)
	if err != nil {
		return err
	}
	if *role == "" {
		return errors.New("bulk-role: -role es requerido")
	}
	updated, err := a.api.BulkSetRole(ctx, parsed, *role)
	if err != nil {
		return err
	}
	if err := a.store.BulkSetRole(parsed, *role); err != nil {
		return err
	}
	fmt.Printf("%d usuarios actualizados\n", updated)
	return nil
}

func (a *app) bulkDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bulk-delete", flag.ExitOnError)
	ids := fs.String("ids", "", "ids separados por coma")
	_ = fs.Parse(args)
	parsed, err := parseIDs(*ids)
	if err != nil {
		return err
	}
	deleted, err := a.api.BulkDelete(ctx, parsed)
	if err != nil {
		return err
	}
	if err := a.store.BulkDelete(parsed); err != nil {
		return err
	}
	fmt.Printf("%d usuarios borrados\n", deleted)
	return nil
}

func (a *app) importCSV(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "archivo CSV")
	_ = fs.Parse(args)
	if *file == "" {
		return errors.New("import: -file es requerido")
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := client.ImportCSV(f)
	if err != nil {
		return err
	}
	// En orden inverso para que la primera fila del CSV quede la primera de la vista.
	imported := 0
	for i := len(result.Users) - 1; i >= 0; i-- {
		if err := a.store.AddLocal(result.Users[i]); err != nil {
			if errors.Is(err, client.ErrDuplicateID) {
				fmt.Fprintf(os.Stderr, "  usuario %d omitido: id ya presente\n", result.Users[i].ID)
				continue
			}
			return err
		}
		imported++
	}
	fmt.Printf("%d usuarios importados\n", imported)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "  "+e)
	}
	return nil
}

func (a *app) exportCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "archivo CSV de salida")
	_ = fs.Parse(args)
	if *file == "" {
		return errors.New("export: -file es requerido")
	}
	if err := a.fetchAll(ctx); err != nil {
		return err
	}
	f, err := os.Create(*file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := client.ExportCSV(f, a.store.View()); err != nil {
		return err
	}
	fmt.Printf("vista exportada a %s\n", *file)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	if err := a.fetchAll(ctx); err != nil {
		return err
	}
	s := client.Summarize(a.store.View(), time.Now())
	fmt.Printf("usuarios: %d\n", s.TotalUsers)
	for _, r := range s.Roles {
		fmt.Printf("  %-8s %3d (%d%%)\n", r.Role, r.Count, r.Percentage)
	}
	fmt.Printf("activos: %d (%d%%)  inactivos: %d (%d%%)\n",
		s.Status.Active, s.Status.ActivePercentage,
		s.Status.Inactive, s.Status.InactivePercentage)
	fmt.Printf("tendencia: %s (crecimiento %+d)\n", s.GrowthLabel, s.Growth)
	return nil
}

// fetchAll carga páginas en orden hasta agotar hasMore.
func (a *app) fetchAll(ctx context.Context) error {
	for n := 1; ; n++ {
		if err := a.store.FetchPage(ctx, n); err != nil {
			return err
		}
		if !a.store.HasMore() {
			return nil
		}
	}
}

func printUsers(users []dto.UserResponse) {
	fmt.Printf("%-6s %-20s %-15s %-28s %-8s %-8s\n", "ID", "NOMBRE", "USERNAME", "EMAIL", "ROL", "ESTADO")
	for _, u := range users {
		fmt.Printf("%-6d %-20s %-15s %-28s %-8s %-8s\n", u.ID, u.Name, u.Username, u.Email, u.Role, u.Status)
	}
}

func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, errors.New("-ids es requerido (ej. 1,3,5)")
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("id inválido %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "userctl: "+format+"\n", args...)
	os.Exit(1)
}
