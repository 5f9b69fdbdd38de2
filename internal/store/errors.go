// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations (duplicate slug, duplicate email, …).
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was caused by a unique index.
// The slug generator probes before writing, but concurrent creation of
// colliding slugs can still race past the probe; the unique index is the
// backstop and this helper lets handlers surface it as a conflict.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
