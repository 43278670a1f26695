package sales_test

import "github.com/jhoicas/Ventas-api/internal/domain/repository"

func repositoryAll() repository.SaleFilter {
	return repository.SaleFilter{IncludeCancelled: true}
}
