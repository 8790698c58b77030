package mysql

// Column order shared by every establishment SELECT; see scanEstablishment.
const establishmentColumns = `
  e.id, e.user_id, e.name, COALESCE(e.description, ''), e.address, e.neighborhood,
  e.phone, e.whatsapp, e.type, e.is_open, e.latitude, e.longitude,
  e.image_url, e.menu_url, e.website, e.instagram, e.plan_type, e.is_approved,
  e.created_at, e.updated_at`

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

const insertEstablishmentSQL = `
INSERT INTO establishments
  (user_id, name, description, address, neighborhood, phone, whatsapp, type, is_open,
   latitude, longitude, image_url, menu_url, website, instagram, plan_type, is_approved,
   created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateEstablishmentSQL = `
UPDATE establishments SET
  name = ?, description = ?, address = ?, neighborhood = ?, phone = ?, whatsapp = ?,
  type = ?, is_open = ?, latitude = ?, longitude = ?, image_url = ?, menu_url = ?,
  website = ?, instagram = ?, plan_type = ?, is_approved = ?, updated_at = ?
WHERE id = ?
`

// reviews and images also cascade through their foreign keys; the explicit
// deletes keep the behaviour identical on engines without FK enforcement.
const deleteReviewsByEstablishmentSQL = `DELETE FROM reviews WHERE establishment_id = ?`
const deleteImagesByEstablishmentSQL = `DELETE FROM establishment_images WHERE establishment_id = ?`
const deleteEstablishmentSQL = `DELETE FROM establishments WHERE id = ?`

// Note: `comment` is a keyword in some dialects; keep it quoted.
const insertReviewSQL = "INSERT INTO reviews (establishment_id, user_name, user_email, rating, `comment`, created_at) VALUES (?, ?, ?, ?, ?, ?)"

const insertImageSQL = `
INSERT INTO establishment_images (establishment_id, image_url, is_primary, created_at)
VALUES (?, ?, ?, ?)
`

const insertUserSQL = `
INSERT INTO users (username, email, password_hash, role, created_at)
VALUES (?, ?, ?, ?, ?)
`

const updateUserSQL = `UPDATE users SET username = ?, email = ?, password_hash = ?, role = ? WHERE id = ?`

// An owner's establishments go with the account, children first.
const deleteReviewsByOwnerSQL = `DELETE r FROM reviews r JOIN establishments e ON e.id = r.establishment_id WHERE e.user_id = ?`
const deleteImagesByOwnerSQL = `DELETE i FROM establishment_images i JOIN establishments e ON e.id = i.establishment_id WHERE e.user_id = ?`
const deleteEstablishmentsByOwnerSQL = `DELETE FROM establishments WHERE user_id = ?`
const deleteUserSQL = `DELETE FROM users WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getEstablishmentSQL = `SELECT` + establishmentColumns + `
FROM establishments e
WHERE e.id = ?`

const lockEstablishmentSQL = getEstablishmentSQL + ` FOR UPDATE`

// Rating and count are aggregated per read; they are never stored.
const listEstablishmentsPrefix = `SELECT` + establishmentColumns + `,
  COALESCE(SUM(r.rating), 0) AS rating_sum,
  COUNT(r.id)                AS review_count
FROM establishments e
LEFT JOIN reviews r ON r.establishment_id = e.id`

const listEstablishmentsSuffix = `
GROUP BY e.id
ORDER BY e.id`

const listReviewsSQL = "SELECT id, establishment_id, user_name, user_email, rating, COALESCE(`comment`, ''), created_at FROM reviews WHERE establishment_id = ? ORDER BY created_at DESC, id DESC"

const listImagesSQL = `
SELECT id, establishment_id, image_url, is_primary, created_at
FROM establishment_images
WHERE establishment_id = ?
ORDER BY is_primary DESC, id`

const distinctNeighborhoodsSQL = `SELECT DISTINCT neighborhood FROM establishments WHERE neighborhood <> '' ORDER BY neighborhood`
const distinctTypesSQL = `SELECT DISTINCT type FROM establishments WHERE type <> '' ORDER BY type`

const statsSQL = `
SELECT
  COUNT(*),
  COALESCE(SUM(is_approved), 0),
  COALESCE(SUM(is_open), 0)
FROM establishments`

const userColumns = `id, username, email, password_hash, role, created_at`

const getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
const getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
const lockUserSQL = getUserByIDSQL + ` FOR UPDATE`
const listUsersSQL = `SELECT ` + userColumns + ` FROM users ORDER BY id`
