package utils

// Partition splits the index range [0, MaxIndex) into contiguous buckets whose sizes differ by at most one.
type Partition struct {
	MaxIndex int
	NBuckets int
	Buckets  [][2]int // Beginning and end index of each bucket
}

func NewPartition(nBuckets, maxIndex int) (p *Partition) {
	if nBuckets < 1 {
		nBuckets = 1
	}
	p = &Partition{
		MaxIndex: maxIndex,
		NBuckets: nBuckets,
		Buckets:  make([][2]int, nBuckets),
	}
	var (
		size      = maxIndex / nBuckets
		remainder = maxIndex % nBuckets
		start     int
	)
	// the first remainder buckets take one extra index
	for n := range p.Buckets {
		end := start + size
		if n < remainder {
			end++
		}
		p.Buckets[n] = [2]int{start, end}
		start = end
	}
	return
}

func (p *Partition) Range(bucket int) (kMin, kMax int) {
	return p.Buckets[bucket][0], p.Buckets[bucket][1]
}

func (p *Partition) Size(bucket int) int {
	return p.Buckets[bucket][1] - p.Buckets[bucket][0]
}

// Bucket returns the bucket holding index k, or -1 when k is out of range.
func (p *Partition) Bucket(k int) (bucket int) {
	if k < 0 || k >= p.MaxIndex {
		return -1
	}
	// initial guess, then walk
	bucket = p.NBuckets * k / p.MaxIndex
	for {
		switch {
		case p.Buckets[bucket][0] > k:
			bucket--
		case p.Buckets[bucket][1] <= k:
			bucket++
		default:
			return
		}
	}
}
