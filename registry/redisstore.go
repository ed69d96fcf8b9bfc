package registry

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-redis/redis/v8"

	"attendance-server-go/models"
)

const (
	facultySetKey  = "registry:faculty"   // Set: all faculty IDs
	adminSetKey    = "registry:admins"    // Set: all admin IDs
	semesterSetKey = "registry:semesters" // Set: semesters with subjects or students
	facultyPrefix  = "registry:faculty:"  // Hash: registry:faculty:{id}
	adminPrefix    = "registry:admin:"    // Hash: registry:admin:{id}
	subjectsPrefix = "registry:subjects:" // Set: registry:subjects:{semester}
	studentsPrefix = "registry:students:" // List: registry:students:{semester}, "roll|name"
)

// RedisStore persists the registry snapshot in Redis: sets of ids,
// one hash per faculty/admin, a subject set and an ordered student
// list per semester. Save wipes the previous snapshot and rewrites
// everything in one pipeline.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Ctx: context.Background()}
}

// InitializeRedisClient creates and pings a Redis client.
func InitializeRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	log.Printf("Connected to Redis at %s (db %d)", addr, db)
	return rdb, nil
}

func facultyKey(id string) string { return facultyPrefix + id }
func adminKey(id string) string { return adminPrefix + id }
func subjectsKey(sem string) string { return subjectsPrefix + sem }
func studentsKey(sem string) string { return studentsPrefix + sem }

// Load reassembles the snapshot from Redis.
func (s *RedisStore) Load() (Snapshot, error) {
	snap := emptySnapshot()

	facultyIDs, err := s.Client.SMembers(s.Ctx, facultySetKey).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load faculty ids: %w", err)
	}
	for _, id := range facultyIDs {
		data, err := s.Client.HGetAll(s.Ctx, facultyKey(id)).Result()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to load faculty %s: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		snap.Faculty = append(snap.Faculty, models.Faculty{
			ID:         data["id"],
			Name:       data["name"],
			Password:   data["password"],
			Semester:   data["semester"],
			Subject:    data["subject"],
			Department: data["department"],
		})
	}

	adminIDs, err := s.Client.SMembers(s.Ctx, adminSetKey).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load admin ids: %w", err)
	}
	for _, id := range adminIDs {
		data, err := s.Client.HGetAll(s.Ctx, adminKey(id)).Result()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to load admin %s: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		snap.Admins = append(snap.Admins, models.Admin{
			ID:       data["id"],
			Name:     data["name"],
			Password: data["password"],
			Role:     data["role"],
		})
	}

	semesters, err := s.Client.SMembers(s.Ctx, semesterSetKey).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load semesters: %w", err)
	}
	for _, sem := range semesters {
		subjects, err := s.Client.SMembers(s.Ctx, subjectsKey(sem)).Result()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to load subjects for %s: %w", sem, err)
		}
		if len(subjects) > 0 {
			snap.Subjects[sem] = subjects
		}
		entries, err := s.Client.LRange(s.Ctx, studentsKey(sem), 0, -1).Result()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to load students for %s: %w", sem, err)
		}
		for _, entry := range entries {
			roll, name, ok := strings.Cut(entry, "|")
			if !ok {
				log.Printf("Skipping malformed student entry %q for semester %s", entry, sem)
				continue
			}
			snap.Students[sem] = append(snap.Students[sem], models.Student{RollNo: roll, Name: name})
		}
	}

	return snap, nil
}

// Save replaces the stored snapshot. The previous keys are deleted and
// the new state written in one pipeline.
func (s *RedisStore) Save(snap Snapshot) error {
	oldFaculty, err := s.Client.SMembers(s.Ctx, facultySetKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list previous faculty: %w", err)
	}
	oldAdmins, err := s.Client.SMembers(s.Ctx, adminSetKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list previous admins: %w", err)
	}
	oldSemesters, err := s.Client.SMembers(s.Ctx, semesterSetKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list previous semesters: %w", err)
	}

	pipe := s.Client.TxPipeline()

	for _, id := range oldFaculty {
		pipe.Del(s.Ctx, facultyKey(id))
	}
	for _, id := range oldAdmins {
		pipe.Del(s.Ctx, adminKey(id))
	}
	for _, sem := range oldSemesters {
		pipe.Del(s.Ctx, subjectsKey(sem), studentsKey(sem))
	}
	pipe.Del(s.Ctx, facultySetKey, adminSetKey, semesterSetKey)

	for _, f := range snap.Faculty {
		pipe.SAdd(s.Ctx, facultySetKey, f.ID)
		pipe.HSet(s.Ctx, facultyKey(f.ID), map[string]interface{}{
			"id":         f.ID,
			"name":       f.Name,
			"password":   f.Password,
			"semester":   f.Semester,
			"subject":    f.Subject,
			"department": f.Department,
		})
	}
	for _, a := range snap.Admins {
		pipe.SAdd(s.Ctx, adminSetKey, a.ID)
		pipe.HSet(s.Ctx, adminKey(a.ID), map[string]interface{}{
			"id":       a.ID,
			"name":     a.Name,
			"password": a.Password,
			"role":     a.Role,
		})
	}

	semesters := make(map[string]bool)
	for sem := range snap.Subjects {
		semesters[sem] = true
	}
	for sem := range snap.Students {
		semesters[sem] = true
	}
	for sem := range semesters {
		pipe.SAdd(s.Ctx, semesterSetKey, sem)
		for _, subject := range snap.Subjects[sem] {
			pipe.SAdd(s.Ctx, subjectsKey(sem), subject)
		}
		for _, st := range snap.Students[sem] {
			pipe.RPush(s.Ctx, studentsKey(sem), st.RollNo+"|"+st.Name)
		}
	}

	if _, err := pipe.Exec(s.Ctx); err != nil {
		return fmt.Errorf("failed to save registry snapshot to Redis: %w", err)
	}
	return nil
}
