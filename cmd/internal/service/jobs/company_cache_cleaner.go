package jobs

import (
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/utils"
)

const CacheTTLMillis = 10 * 60 * 60 * 1000

type CompanyRepository interface {
	DeleteExpired(before int64) (int64, error)
}

// CompanyCacheCleaner drops registry lookups older than CacheTTLMillis, negative ones included,
// so that registration changes are picked up again.
type CompanyCacheCleaner struct {
	companyRepo CompanyRepository
	now         func() int64
}

func NewCompanyCacheCleaner(repo CompanyRepository) *CompanyCacheCleaner {
	return &CompanyCacheCleaner{companyRepo: repo, now: utils.NowUTC}
}

func (c *CompanyCacheCleaner) Name() string {
	return "company cache cleaner"
}

func (c *CompanyCacheCleaner) Run() {
	cutoff := c.now() - CacheTTLMillis

	removed, err := c.companyRepo.DeleteExpired(cutoff)
	if err != nil {
		log.Errorf("Cleaner: failed to delete expired company cache: %v", err)
		return
	}

	log.Debugf("Cleaner: swept %d company caches older than %d", removed, cutoff)
}
