package usecase

import "github.com/iho/earnledger/internal/domain"

// Seed replaces the position list.
func (uc *PositionUseCase) Seed(list []domain.Position) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.positions = domain.ClonePositions(list)
}
