// authfix is the offline maintenance tool for the usuarios/auth tables.
//
//	authfix diagnose   report orphan users, NULL handles and schema anomalies
//	authfix orphans    create credential rows for users that lack one
//	authfix schema     apply the idempotent schema repairs
//
// It talks to the same database as the server and must not run while another
// repair is in progress against the same store.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/user/primer-backend-go/config"
	"github.com/user/primer-backend-go/db"
	"github.com/user/primer-backend-go/repair"
	"github.com/user/primer-backend-go/store"
)

func main() {
	flag.Parse()

	action := "diagnose"
	if args := flag.Args(); len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	sqlStore := store.NewSQLStore(pool)
	fixer := repair.NewFixer(sqlStore, cfg.Auth.BcryptCost, nil)

	switch action {
	case "diagnose":
		report, err := fixer.Diagnose(ctx)
		if err != nil {
			log.Fatalf("diagnose: %v", err)
		}
		printReport(report)

	case "orphans":
		fixed, err := fixer.FixOrphans(ctx)
		if err != nil {
			log.Fatalf("fix orphans: %v", err)
		}
		log.Printf("%d usuario(s) reparado(s)", len(fixed))

	case "schema":
		applied, err := repair.FixSchema(ctx, pool)
		if err != nil {
			log.Fatalf("fix schema: %v", err)
		}
		if len(applied) == 0 {
			log.Println("el esquema ya está correcto, nada que aplicar")
		}
		for _, stmt := range applied {
			log.Printf("aplicado: %s", stmt)
		}

	default:
		log.Fatalf("unknown action %q (want diagnose, orphans or schema)", action)
	}
}

func printReport(report *repair.Report) {
	log.Printf("usuarios: %d, credenciales: %d", report.TotalUsuarios, report.TotalCredenciales)

	if len(report.Huerfanos) == 0 {
		log.Println("todos los usuarios tienen datos de autenticación")
	} else {
		log.Printf("%d usuario(s) sin datos de autenticación:", len(report.Huerfanos))
		for _, u := range report.Huerfanos {
			handle := u.Usuario
			if handle == "" {
				handle = "NULL"
			}
			log.Printf("  - id: %d, nombre: %s, usuario: %s", u.ID, u.Nombre, handle)
		}
		log.Println("ejecuta 'authfix orphans' para corregirlos")
	}

	if len(report.SinUsuario) > 0 {
		log.Printf("%d usuario(s) con campo usuario NULL (no pueden hacer login):", len(report.SinUsuario))
		for _, u := range report.SinUsuario {
			log.Printf("  - id: %d, nombre: %s", u.ID, u.Nombre)
		}
	}

	if len(report.Esquema) == 0 {
		log.Println("sin anomalías de esquema")
	} else {
		log.Printf("%d anomalía(s) de esquema:", len(report.Esquema))
		for _, issue := range report.Esquema {
			log.Printf("  - %s", issue)
		}
		log.Println("ejecuta 'authfix schema' para corregirlas")
	}
}
