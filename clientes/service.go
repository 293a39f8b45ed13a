// Package clientes implements generic CRUD over the clientes table. It is the
// plainest consumer of the store adapter: no credential handling, just rows.
package clientes

import (
	"context"
	"errors"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/store"
)

// Cliente is a row of the clientes table.
type Cliente struct {
	ID        int    `json:"id"`
	Nombre    string `json:"nombre"`
	Edad      int    `json:"edad"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
}

// GuardarRequest is the insert-or-update payload. A zero ID means insert.
type GuardarRequest struct {
	ID        int    `json:"id,omitempty"`
	Nombre    string `json:"nombre" example:"María López"`
	Edad      int    `json:"edad" example:"25"`
	Telefono  string `json:"telefono" example:"300112233"`
	Direccion string `json:"direccion" example:"Carrera 7 #54 - 12, Bogotá"`
}

// Service provides client CRUD over the store adapter.
type Service struct {
	store store.Store
}

// NewService creates the clientes service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Todos returns every client.
func (s *Service) Todos(ctx context.Context) ([]Cliente, error) {
	recs, err := s.store.All(ctx, store.TablaClientes)
	if err != nil {
		return nil, apperror.NewDatabaseError("Error consultando clientes", err)
	}
	out := make([]Cliente, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Uno returns the client with the given id.
func (s *Service) Uno(ctx context.Context, id int) (*Cliente, error) {
	rec, err := s.store.One(ctx, store.TablaClientes, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Cliente no encontrado", nil)
		}
		return nil, apperror.NewDatabaseError("Error consultando cliente", err)
	}
	c := fromRecord(rec)
	return &c, nil
}

// Guardar inserts or updates a client.
func (s *Service) Guardar(ctx context.Context, req GuardarRequest) (*Cliente, error) {
	if req.Nombre == "" {
		return nil, apperror.NewValidationError("El campo nombre es requerido", nil)
	}
	rec := store.Record{
		"nombre":    req.Nombre,
		"edad":      req.Edad,
		"telefono":  req.Telefono,
		"direccion": req.Direccion,
	}
	if req.ID != 0 {
		rec["id"] = req.ID
	}
	id, err := s.store.Upsert(ctx, store.TablaClientes, rec)
	if err != nil {
		return nil, apperror.NewDatabaseError("Error guardando cliente", err)
	}
	return s.Uno(ctx, id)
}

// Eliminar removes the client with the given id.
func (s *Service) Eliminar(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, store.TablaClientes, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return apperror.NewNotFoundError("Cliente no encontrado", nil)
		}
		return apperror.NewDatabaseError("Error eliminando cliente", err)
	}
	return nil
}

func fromRecord(rec store.Record) Cliente {
	return Cliente{
		ID:        store.Int(rec, "id"),
		Nombre:    store.String(rec, "nombre"),
		Edad:      store.Int(rec, "edad"),
		Telefono:  store.String(rec, "telefono"),
		Direccion: store.String(rec, "direccion"),
	}
}
