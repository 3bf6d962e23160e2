// Package storage implements the JSON-file persistence layer behind the
// admin API.
//
// Each collection lives in one JSON array file under the data directory:
//
//	database/
//	  admins.json
//	  cohorts.json
//	  caps.json
//	  users.json
//	  questions.json
//	  adherence-records.json
//	  activity-log.json
//	  adherence-rollups.json
//
// Reads come from an in-memory snapshot, so request handlers never touch the
// filesystem. Writes marshal the whole collection, land in a temp file, and
// rename into place so readers of the file never observe a partial write.
// When watching is enabled, fsnotify reloads a collection after outside edits
// (seed scripts, manual fixes) and notifies subscribers so caches can
// invalidate.
//
// Missing collection files read as empty collections; a file that is not a
// JSON array is rejected on load rather than cached.
package storage
