package roundrobin

// Crenshaw-Berger schedules for even-sized round robins. Each row is
// tab-separated: size, round, then the boards in order as "white-black"
// player numbers (1..N).
var pairings = []string{
	"4\t1\t1-4 2-3",
	"4\t2\t3-1 4-2",
	"4\t3\t1-2 3-4",
	"6\t1\t3-6 5-4 1-2",
	"6\t2\t2-6 4-1 3-5",
	"6\t3\t6-5 1-3 4-2",
	"6\t4\t6-4 5-1 2-3",
	"6\t5\t1-6 2-5 3-4",
	"8\t1\t4-8 5-3 6-2 7-1",
	"8\t2\t8-7 1-6 2-5 3-4",
	"8\t3\t3-8 4-2 5-1 6-7",
	"8\t4\t8-6 7-5 1-4 2-3",
	"8\t5\t2-8 3-1 4-7 5-6",
	"8\t6\t8-5 6-4 7-3 1-2",
	"8\t7\t1-8 2-7 3-6 4-5",
	"10\t1\t5-10 6-4 7-3 8-2 9-1",
	"10\t2\t10-9 1-8 2-7 3-6 4-5",
	"10\t3\t4-10 5-3 6-2 7-1 8-9",
	"10\t4\t10-8 9-7 1-6 2-5 3-4",
	"10\t5\t3-10 4-2 5-1 6-9 7-8",
	"10\t6\t10-7 8-6 9-5 1-4 2-3",
	"10\t7\t2-10 3-1 4-9 5-8 6-7",
	"10\t8\t10-6 7-5 8-4 9-3 1-2",
	"10\t9\t1-10 2-9 3-8 4-7 5-6",
}

// Color reversals applied when a player withdraws in the first half.
// Tab-separated: size, round at which the reversals begin, the withdrawn
// slot, then space-separated "w-b" pairs whose colors flip.
var reversals = []string{
	"4\t3\t1\t",
	"4\t3\t2\t4-3",
	"4\t3\t3\t2-1",
	"4\t3\t4\t",
	"6\t5\t1\t5-2 4-3",
	"6\t5\t2\t4-3",
	"6\t5\t3\t",
	"6\t5\t4\t6-1 5-2",
	"6\t5\t5\t6-1",
	"6\t5\t6\t",
	"8\t5\t1\t7-2 5-4",
	"8\t5\t2\t6-3",
	"8\t5\t3\t5-4 7-2 2-1",
	"8\t5\t4\t6-3 3-7 7-2",
	"8\t5\t5\t8-1 7-4 4-6 6-3",
	"8\t5\t6\t8-2 5-4",
	"8\t5\t7\t8-1 6-3",
	"8\t5\t8\t",
	"10\t7\t1\t9-2 7-4",
	"10\t7\t2\t8-3 6-5",
	"10\t7\t3\t7-4 9-2 2-1",
	"10\t7\t4\t6-5 8-3 3-9 9-2",
	"10\t7\t5\t9-2 7-4 2-1 4-8 8-3",
	"10\t7\t6\t10-2 8-5 5-7 7-4",
	"10\t7\t7\t10-1 6-5 9-4 4-8 8-3",
	"10\t7\t8\t10-2 7-4",
	"10\t7\t9\t10-1 8-3 6-5",
	"10\t7\t10\t",
}
