package memory

import (
	"github.com/finlend/credit-service/internal/repository"
)

var (
	_ repository.CustomerStore = (*CustomerStore)(nil)
	_ repository.LoanStore     = (*LoanStore)(nil)
)
