package resource

// Counters is every per-session accumulator a checkpoint has to restore.
type Counters struct {
	Score             int64 `msgpack:"score"`
	HighScore         int64 `msgpack:"high_score"`
	HighScoreAchieved bool  `msgpack:"high_score_achieved"`

	Life        FragmentCounter `msgpack:"life"`
	Bomb        FragmentCounter `msgpack:"bomb"`
	InitialLife int             `msgpack:"initial_life"`
	InitialBomb int             `msgpack:"initial_bomb"`

	Power      int   `msgpack:"power"`
	Graze      int   `msgpack:"graze"`
	PointValue int64 `msgpack:"point_value"`

	Credits   int `msgpack:"credits"`
	Continues int `msgpack:"continues"`

	DialogActive bool `msgpack:"dialog_active"`
}

// Settings configures a fresh set of counters.
type Settings struct {
	Life       FragmentCounter
	Bomb       FragmentCounter
	PointValue int64
	Credits    int
	HighScore  int64
}

// New returns counters at the start of a session.
func New(s Settings) Counters {
	return Counters{
		HighScore:   s.HighScore,
		Life:        s.Life,
		Bomb:        s.Bomb,
		InitialLife: s.Life.Completed,
		InitialBomb: s.Bomb.Completed,
		PointValue:  s.PointValue,
		Credits:     s.Credits,
	}
}

// AddScore adds delta to the score and tracks whether the high score was
// beaten this session.
func (c *Counters) AddScore(delta int64) {
	c.Score += delta
	if c.Score > c.HighScore {
		c.HighScore = c.Score
		c.HighScoreAchieved = true
	}
}

// AddGraze counts one graze and returns the new total.
func (c *Counters) AddGraze() int {
	c.Graze++
	return c.Graze
}

// AddPower raises power up to limit.
func (c *Counters) AddPower(n, limit int) {
	c.Power = min(c.Power+n, limit)
}

// LoseLife consumes a life on death and restores bombs to their initial
// count. It reports false when no life was left to lose.
func (c *Counters) LoseLife() bool {
	if !c.Life.RemoveCompleted(1) {
		return false
	}
	c.Bomb.Reset(c.InitialBomb)
	return true
}

// Continue spends a credit to restart with the initial life and bomb counts.
// The score restarts at the number of continues used, so a continued run is
// always recognizable from its last digit. It reports false when no credits
// remain.
func (c *Counters) Continue() bool {
	if c.Credits <= 0 {
		return false
	}
	c.Credits--
	c.Continues++
	c.Score = int64(c.Continues)
	c.Life.Reset(c.InitialLife)
	c.Bomb.Reset(c.InitialBomb)
	c.Power = 0
	return true
}
