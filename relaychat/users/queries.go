package users

const queryFindByEmail = `
	SELECT id, email, username, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1`

const queryFindByID = `
	SELECT id, email, username, password_hash, created_at, updated_at
	FROM users
	WHERE id = $1`

const queryCreate = `
	INSERT INTO users (email, username, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, email, username, password_hash, created_at, updated_at`
