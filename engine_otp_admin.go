package authcore

import "context"

// OTPStats scans the otp: namespace and reconciles the key listing against
// per-key existence checks to estimate entries the store has expired but not
// yet unlisted. Best-effort and non-authoritative: the store manages TTL
// eviction on its own schedule.
func (e *Engine) OTPStats(ctx context.Context) (OTPStats, error) {
	var stats OTPStats
	if e == nil || e.otp == nil {
		return stats, ErrEngineNotReady
	}

	emails, err := e.otp.ListEmails(ctx)
	if err != nil {
		return stats, err
	}
	stats.Total = len(emails)
	for _, email := range emails {
		ok, err := e.otp.Exists(ctx, email)
		if err != nil {
			return stats, err
		}
		if ok {
			stats.Active++
		}
	}
	stats.Expired = stats.Total - stats.Active
	return stats, nil
}

// CleanupOTPs reconciles the otp: namespace the same way OTPStats does and
// reports how many expired-but-listed entries were observed gone. When a
// durable repository is configured its expired documents are purged as well.
func (e *Engine) CleanupOTPs(ctx context.Context) (int, error) {
	if e == nil || e.otp == nil {
		return 0, ErrEngineNotReady
	}

	emails, err := e.otp.ListEmails(ctx)
	if err != nil {
		return 0, err
	}
	cleaned := 0
	for _, email := range emails {
		ok, err := e.otp.Exists(ctx, email)
		if err != nil {
			return cleaned, err
		}
		if !ok {
			cleaned++
		}
	}

	if e.repo != nil {
		if _, err := e.repo.DeleteExpired(ctx); err != nil {
			e.log.WithError(err).Warn("authcore: durable otp cleanup failed")
		}
	}
	return cleaned, nil
}
