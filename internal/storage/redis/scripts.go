package redis

const (
	// commitScript atomically adds a committed duration to the day bucket
	// and the overall total. Readers never observe one without the other.
	commitScript = `
local days_key = KEYS[1]     -- gametime:days
local overall_key = KEYS[2]  -- gametime:overall

local date = ARGV[1]
local tenths = tonumber(ARGV[2])

redis.call('HINCRBY', days_key, date, tenths)
redis.call('INCRBY', overall_key, tenths)

return 'OK'
`
)
