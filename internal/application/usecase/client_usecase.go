package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

const clientFolder = "clientes"

// ClientUseCase gestión de clientes publicados.
type ClientUseCase struct {
	repo  repository.ClientRepository
	media ports.MediaStore
	log   zerolog.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, media ports.MediaStore, log zerolog.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, media: media, log: log}
}

func forbidClients(actor access.Actor) error {
	if !access.CanManageClients(actor) {
		return fmt.Errorf("%w: no tienes permisos para gestionar clientes", domain.ErrForbidden)
	}
	return nil
}

func (uc *ClientUseCase) response(c *entity.Client) dto.ClientResponse {
	return dto.NewClientResponse(c, photoURL(uc.media, c.ImageKey))
}

// List clientes, más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context) ([]dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, uc.response(c))
	}
	return out, nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := uc.response(c)
	return &resp, nil
}

func (uc *ClientUseCase) load(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *ClientUseCase) saveImage(ctx context.Context, image *ports.Upload) (string, error) {
	if image == nil {
		return "", nil
	}
	if err := checkImage("imagen", image); err != nil {
		return "", err
	}
	return uc.media.Save(ctx, clientFolder, *image)
}

// Create registra un cliente con imagen opcional.
func (uc *ClientUseCase) Create(ctx context.Context, actor access.Actor, in dto.ClientRequest, image *ports.Upload) (*dto.ClientResponse, error) {
	if err := forbidClients(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	key, err := uc.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	c := &entity.Client{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageKey:    key,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		removeMedia(ctx, uc.media, uc.log, key)
		return nil, err
	}
	uc.log.Info().Str("client_id", c.ID).Str("by", actor.Username).Msg("cliente creado")
	resp := uc.response(c)
	return &resp, nil
}

// Update edita un cliente. Una imagen nueva reemplaza (y borra) la anterior.
func (uc *ClientUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.ClientRequest, image *ports.Upload) (*dto.ClientResponse, error) {
	if err := forbidClients(actor); err != nil {
		return nil, err
	}
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	oldKey := c.ImageKey
	key, err := uc.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	c.Title = strings.TrimSpace(in.Title)
	c.Description = strings.TrimSpace(in.Description)
	switch {
	case key != "":
		c.ImageKey = key
	case in.RemoveImage:
		c.ImageKey = ""
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		removeMedia(ctx, uc.media, uc.log, key)
		return nil, err
	}
	if c.ImageKey != oldKey {
		removeMedia(ctx, uc.media, uc.log, oldKey)
	}
	resp := uc.response(c)
	return &resp, nil
}

// Delete elimina el cliente y su imagen.
func (uc *ClientUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := forbidClients(actor); err != nil {
		return err
	}
	c, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	removeMedia(ctx, uc.media, uc.log, c.ImageKey)
	uc.log.Info().Str("client_id", id).Str("by", actor.Username).Msg("cliente eliminado")
	return nil
}
