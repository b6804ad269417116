package dto

import "time"

// BackupDTO copia fechada del libro.
type BackupDTO struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// BackupListResponse backups del más reciente al más antiguo.
type BackupListResponse struct {
	Items []BackupDTO `json:"items"`
}

// PruneBackupsRequest retención manual.
type PruneBackupsRequest struct {
	Keep int `json:"keep" validate:"min=1"`
}

// PruneBackupsResponse backups eliminados por la retención.
type PruneBackupsResponse struct {
	Removed []BackupDTO `json:"removed"`
}

// RestoreBackupResponse resultado de restaurar un backup y recargar el libro.
type RestoreBackupResponse struct {
	Backup     string   `json:"backup"`
	Products   int      `json:"products"`
	Movements  int      `json:"movements"`
	Duplicates []string `json:"duplicates,omitempty"` // filas repetidas descartadas
	Recomputed []string `json:"recomputed,omitempty"` // productos con derivados corregidos
}
