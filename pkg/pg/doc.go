// Package pg bootstraps the Postgres layer behind the delivery log: a pgx/v5
// connection pool with retrying startup, embedded goose migrations, a probe
// for readiness endpoints and a couple of error classification helpers.
//
// Typical startup sequence:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrationsFS, cfg, log); err != nil {
//	    return err
//	}
//
// Migrations ship inside the binary as an fs.FS, so a deployment never
// depends on a migrations directory being present on disk.
//
// IsNotFoundError and IsDuplicateKeyError unwrap pgx and pgconn errors so
// storage code can map them onto its own sentinels without importing driver
// internals everywhere.
package pg
