package http

import (
	"github.com/gofiber/fiber/v2"

	appbackup "github.com/jhoicas/inventario-ledger/internal/application/backup"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// BackupHandler copias de seguridad del libro.
type BackupHandler struct {
	uc *appbackup.UseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *appbackup.UseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// List godoc
// @Summary      Listar backups (más reciente primero)
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupListResponse
// @Router       /api/backups [get]
func (h *BackupHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear backup manual
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.BackupDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/backups [post]
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	out, err := h.uc.Create(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar backup
// @Tags         backups
// @Security     Bearer
// @Param        name  path  string  true  "Nombre del backup"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/backups/{name} [delete]
func (h *BackupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("name")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar backup (el libro actual se respalda antes)
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del backup"
// @Success      200  {object}  dto.RestoreBackupResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/backups/{name}/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Prune godoc
// @Summary      Conservar solo los N backups más recientes
// @Tags         backups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PruneBackupsRequest  true  "Retención"
// @Success      200  {object}  dto.PruneBackupsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/backups/prune [post]
func (h *BackupHandler) Prune(c *fiber.Ctx) error {
	var in dto.PruneBackupsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Prune(c.UserContext(), in.Keep)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
