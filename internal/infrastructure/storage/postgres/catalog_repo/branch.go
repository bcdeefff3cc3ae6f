package catalog_repo

import (
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/infrastructure/storage/postgres"
)

const branchTable = "branches"

// BranchRepo implements the branch repository.
type BranchRepo struct {
	*BaseCatalogRepo[*branch.Branch]
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txManager *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*branch.Branch](
			txManager,
			branchTable,
			postgres.ExtractDBColumns[branch.Branch](),
			[]string{"name", "address"},
			func() *branch.Branch { return &branch.Branch{} },
		),
	}
}
