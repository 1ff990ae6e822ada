package repository

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "sort"
    "strconv"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-ticket-booking/internal/model"
    "github.com/iliyamo/movie-ticket-booking/internal/utils"
)

// RedisBookingRepo stores each booking as a JSON document under
// <prefix>:<id>.  Insertion order lives in the <prefix>:index list and the
// labels booked for a showtime in the <prefix>:seats:<showtime> hash, which
// counts the bookings holding each label.  When seat claims are enforced
// every seat is additionally claimed with SETNX on
// <prefix>:claim:<showtime>:<label>.
type RedisBookingRepo struct {
    rdb    *redis.Client
    prefix string
    opts   StoreOptions
}

// NewRedisBookingRepo returns a repository using rdb.  An empty prefix
// defaults to "booking".
func NewRedisBookingRepo(rdb *redis.Client, prefix string, opts StoreOptions) *RedisBookingRepo {
    if prefix == "" {
        prefix = "booking"
    }
    return &RedisBookingRepo{rdb: rdb, prefix: prefix, opts: opts.withDefaults()}
}

func (r *RedisBookingRepo) recordKey(id string) string { return r.prefix + ":" + id }
func (r *RedisBookingRepo) indexKey() string         { return r.prefix + ":index" }
func (r *RedisBookingRepo) seatsKey(showtimeID uint64) string {
    return fmt.Sprintf("%s:seats:%d", r.prefix, showtimeID)
}
func (r *RedisBookingRepo) claimKey(showtimeID uint64, label string) string {
    return fmt.Sprintf("%s:claim:%d:%s", r.prefix, showtimeID, label)
}

func (r *RedisBookingRepo) Create(ctx context.Context, b *model.BookingData) error {
    if err := ValidateForCreate(b); err != nil {
        return err
    }
    now := r.opts.Now()
    prepare(b, now)

    // Reserve the record key first so the claims below can name the owner.
    reserved := false
    for i := 0; i < maxIDAttempts; i++ {
        b.ID = r.opts.NewID(now)
        payload, err := json.Marshal(b)
        if err != nil {
            b.ID = ""
            return err
        }
        ok, err := r.rdb.SetNX(ctx, r.recordKey(b.ID), payload, 0).Result()
        if err != nil {
            b.ID = ""
            return err
        }
        if ok {
            reserved = true
            break
        }
    }
    if !reserved {
        b.ID = ""
        return ErrConflict
    }

    labels := uniqueLabels(b.Seats)
    if r.opts.EnforceSeats {
        if err := r.claim(ctx, b.ID, b.ShowtimeID, labels); err != nil {
            _ = r.rdb.Del(context.Background(), r.recordKey(b.ID)).Err()
            b.ID = ""
            return err
        }
    }

    var (
        push  *redis.IntCmd
        seats = make([]*redis.IntCmd, len(labels))
    )
    _, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
        push = p.RPush(ctx, r.indexKey(), b.ID)
        for i, l := range labels {
            seats[i] = p.HIncrBy(ctx, r.seatsKey(b.ShowtimeID), l, 1)
        }
        return nil
    })
    if err != nil {
        r.rollback(b, labels, push, seats)
        b.ID = ""
        return err
    }
    return nil
}

// rollback undoes the writes of a Create whose index pipeline failed.  A
// MULTI applies the commands that did not error, so each one is checked.
func (r *RedisBookingRepo) rollback(b *model.BookingData, labels []string, push *redis.IntCmd, seats []*redis.IntCmd) {
    ctx := context.Background()
    if push != nil && push.Err() == nil {
        _ = r.rdb.LRem(ctx, r.indexKey(), 1, b.ID).Err()
    }
    for i, cmd := range seats {
        if cmd == nil || cmd.Err() != nil {
            continue
        }
        n, err := r.rdb.HIncrBy(ctx, r.seatsKey(b.ShowtimeID), labels[i], -1).Result()
        if err == nil && n <= 0 {
            _ = r.rdb.HDel(ctx, r.seatsKey(b.ShowtimeID), labels[i]).Err()
        }
    }
    keys := []string{r.recordKey(b.ID)}
    if r.opts.EnforceSeats {
        for _, l := range labels {
            keys = append(keys, r.claimKey(b.ShowtimeID, l))
        }
    }
    if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
        log.Printf("booking store: rollback %s: %v", b.ID, err)
    }
}

// claim takes every label for id or none of them.
func (r *RedisBookingRepo) claim(ctx context.Context, id string, showtimeID uint64, labels []string) error {
    taken := make([]string, 0, len(labels))
    for _, l := range labels {
        ok, err := r.rdb.SetNX(ctx, r.claimKey(showtimeID, l), id, 0).Result()
        if err == nil && ok {
            taken = append(taken, r.claimKey(showtimeID, l))
            continue
        }
        if len(taken) > 0 {
            _ = r.rdb.Del(context.Background(), taken...).Err()
        }
        if err != nil {
            return err
        }
        return ErrSeatTaken
    }
    return nil
}

func (r *RedisBookingRepo) List(ctx context.Context) ([]model.BookingData, error) {
    ids, err := r.rdb.LRange(ctx, r.indexKey(), 0, -1).Result()
    if err != nil {
        return nil, err
    }
    out := make([]model.BookingData, 0, len(ids))
    if len(ids) == 0 {
        return out, nil
    }
    keys := make([]string, len(ids))
    for i, id := range ids {
        keys[i] = r.recordKey(id)
    }
    vals, err := r.rdb.MGet(ctx, keys...).Result()
    if err != nil {
        return nil, err
    }
    for _, v := range vals {
        s, ok := v.(string)
        if !ok {
            continue
        }
        var b model.BookingData
        if err := json.Unmarshal([]byte(s), &b); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, nil
}

func (r *RedisBookingRepo) Get(ctx context.Context, id string) (*model.BookingData, error) {
    // Keeps lookups away from the index and seat keys sharing the prefix.
    if !utils.IsBookingID(id) {
        return nil, ErrBookingNotFound
    }
    bs, err := r.rdb.Get(ctx, r.recordKey(id)).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    var b model.BookingData
    if err := json.Unmarshal(bs, &b); err != nil {
        return nil, err
    }
    return &b, nil
}

func (r *RedisBookingRepo) TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
    counts, err := r.rdb.HGetAll(ctx, r.seatsKey(showtimeID)).Result()
    if err != nil {
        return nil, err
    }
    labels := make([]string, 0, len(counts))
    for l, n := range counts {
        if v, err := strconv.Atoi(n); err == nil && v > 0 {
            labels = append(labels, l)
        }
    }
    sort.Strings(labels)
    return labels, nil
}
