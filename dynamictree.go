package slide2d

type treeQueryCallback func(nodeId int) bool

const nullNode = -1

type treeNode struct {

	/// Enlarged AABB
	Aabb AABB

	Entity Entity

	// union
	// {
	Parent int
	Next   int
	//};

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node treeNode) IsLeaf() bool {
	return node.Child1 == nullNode
}

/// A dynamic AABB tree broad-phase, inspired by Nathanael Presson's btDbvt.
/// A dynamic tree arranges data in a binary tree to accelerate
/// volume queries. Leafs are proxies with an AABB. In the tree we expand
/// the proxy AABB by aabbExtension so that the proxy AABB is bigger than
/// the client object. This allows the client object to move by small
/// amounts without triggering a tree update.
///
/// Nodes are pooled and relocatable, so we use node indices rather than pointers.
type dynamicTree struct {
	root int

	nodes        []treeNode
	nodeCount    int
	nodeCapacity int

	freeList int

	insertionCount int
}

func makeDynamicTree() dynamicTree {
	tree := dynamicTree{}
	tree.root = nullNode

	tree.nodeCapacity = 16
	tree.nodeCount = 0
	tree.nodes = make([]treeNode, tree.nodeCapacity)

	// Build a linked list for the free list.
	for i := 0; i < tree.nodeCapacity-1; i++ {
		tree.nodes[i].Next = i + 1
		tree.nodes[i].Height = -1
	}

	tree.nodes[tree.nodeCapacity-1].Next = nullNode
	tree.nodes[tree.nodeCapacity-1].Height = -1
	tree.freeList = 0

	tree.insertionCount = 0

	return tree
}

func (tree dynamicTree) GetEntity(proxyId int) Entity {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	return tree.nodes[proxyId].Entity
}

func (tree *dynamicTree) Query(queryCallback treeQueryCallback, aabb AABB) {
	stack := makeGrowableStack()
	stack.Push(tree.root)

	for stack.Count() > 0 {
		nodeId := stack.Pop()
		if nodeId == nullNode {
			continue
		}

		node := &tree.nodes[nodeId]

		if TestOverlapBoundingBoxes(node.Aabb, aabb) {
			if node.IsLeaf() {
				proceed := queryCallback(nodeId)
				if proceed == false {
					return
				}
			} else {
				stack.Push(node.Child1)
				stack.Push(node.Child2)
			}
		}
	}
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *dynamicTree) AllocateNode() int {

	// Expand the node pool as needed.
	if tree.freeList == nullNode {
		assert(tree.nodeCount == tree.nodeCapacity)

		// The free list is empty. Rebuild a bigger pool.
		tree.nodes = append(tree.nodes, make([]treeNode, tree.nodeCapacity)...)
		tree.nodeCapacity *= 2

		// Build a linked list for the free list. The parent
		// pointer becomes the "next" pointer.
		for i := tree.nodeCount; i < tree.nodeCapacity-1; i++ {
			tree.nodes[i].Next = i + 1
			tree.nodes[i].Height = -1
		}

		tree.nodes[tree.nodeCapacity-1].Next = nullNode
		tree.nodes[tree.nodeCapacity-1].Height = -1
		tree.freeList = tree.nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.freeList
	tree.freeList = tree.nodes[nodeId].Next
	tree.nodes[nodeId].Parent = nullNode
	tree.nodes[nodeId].Child1 = nullNode
	tree.nodes[nodeId].Child2 = nullNode
	tree.nodes[nodeId].Height = 0
	tree.nodes[nodeId].Entity = 0
	tree.nodeCount++

	return nodeId
}

// Return a node to the pool.
func (tree *dynamicTree) FreeNode(nodeId int) {
	assert(0 <= nodeId && nodeId < tree.nodeCapacity)
	assert(0 < tree.nodeCount)
	tree.nodes[nodeId].Next = tree.freeList
	tree.nodes[nodeId].Height = -1
	tree.freeList = nodeId
	tree.nodeCount--
}

// Create a proxy in the tree as a leaf node. We return the index
// of the node instead of a pointer so that we can grow
// the node pool.
func (tree *dynamicTree) CreateProxy(aabb AABB, entity Entity) int {
	proxyId := tree.AllocateNode()

	// Fatten the aabb.
	r := Vec2{aabbExtension, aabbExtension}
	tree.nodes[proxyId].Aabb.LowerBound = aabb.LowerBound.Sub(r)
	tree.nodes[proxyId].Aabb.UpperBound = aabb.UpperBound.Add(r)
	tree.nodes[proxyId].Entity = entity
	tree.nodes[proxyId].Height = 0

	tree.InsertLeaf(proxyId)

	return proxyId
}

func (tree *dynamicTree) DestroyProxy(proxyId int) {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].IsLeaf())

	tree.RemoveLeaf(proxyId)
	tree.FreeNode(proxyId)
}

func (tree *dynamicTree) MoveProxy(proxyId int, aabb AABB, displacement Vec2) bool {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].IsLeaf())

	if tree.nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.RemoveLeaf(proxyId)

	// Extend AABB.
	b := aabb
	r := Vec2{aabbExtension, aabbExtension}
	b.LowerBound = b.LowerBound.Sub(r)
	b.UpperBound = b.UpperBound.Add(r)

	// Predict AABB displacement.
	d := displacement.Mul(aabbMultiplier)

	if d[0] < 0.0 {
		b.LowerBound[0] += d[0]
	} else {
		b.UpperBound[0] += d[0]
	}

	if d[1] < 0.0 {
		b.LowerBound[1] += d[1]
	} else {
		b.UpperBound[1] += d[1]
	}

	tree.nodes[proxyId].Aabb = b

	tree.InsertLeaf(proxyId)

	return true
}

func (tree *dynamicTree) InsertLeaf(leaf int) {
	tree.insertionCount++

	if tree.root == nullNode {
		tree.root = leaf
		tree.nodes[tree.root].Parent = nullNode
		return
	}

	// Find the best sibling for this node
	leafAABB := tree.nodes[leaf].Aabb
	index := tree.root
	for tree.nodes[index].IsLeaf() == false {
		child1 := tree.nodes[index].Child1
		child2 := tree.nodes[index].Child2

		area := tree.nodes[index].Aabb.Perimeter()

		var combinedAABB AABB
		combinedAABB.CombineTwoInPlace(tree.nodes[index].Aabb, leafAABB)
		combinedArea := combinedAABB.Perimeter()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - area)

		// Cost of descending into child1
		cost1 := 0.0
		if tree.nodes[child1].IsLeaf() {
			var aabb AABB
			aabb.CombineTwoInPlace(leafAABB, tree.nodes[child1].Aabb)
			cost1 = aabb.Perimeter() + inheritanceCost
		} else {
			var aabb AABB
			aabb.CombineTwoInPlace(leafAABB, tree.nodes[child1].Aabb)
			oldArea := tree.nodes[child1].Aabb.Perimeter()
			newArea := aabb.Perimeter()
			cost1 = (newArea - oldArea) + inheritanceCost
		}

		// Cost of descending into child2
		cost2 := 0.0
		if tree.nodes[child2].IsLeaf() {
			var aabb AABB
			aabb.CombineTwoInPlace(leafAABB, tree.nodes[child2].Aabb)
			cost2 = aabb.Perimeter() + inheritanceCost
		} else {
			var aabb AABB
			aabb.CombineTwoInPlace(leafAABB, tree.nodes[child2].Aabb)
			oldArea := tree.nodes[child2].Aabb.Perimeter()
			newArea := aabb.Perimeter()
			cost2 = newArea - oldArea + inheritanceCost
		}

		// Descend according to the minimum cost.
		if cost < cost1 && cost < cost2 {
			break
		}

		// Descend
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.nodes[sibling].Parent
	newParent := tree.AllocateNode()
	tree.nodes[newParent].Parent = oldParent
	tree.nodes[newParent].Entity = 0
	tree.nodes[newParent].Aabb.CombineTwoInPlace(leafAABB, tree.nodes[sibling].Aabb)
	tree.nodes[newParent].Height = tree.nodes[sibling].Height + 1

	if oldParent != nullNode {
		// The sibling was not the root.
		if tree.nodes[oldParent].Child1 == sibling {
			tree.nodes[oldParent].Child1 = newParent
		} else {
			tree.nodes[oldParent].Child2 = newParent
		}

		tree.nodes[newParent].Child1 = sibling
		tree.nodes[newParent].Child2 = leaf
		tree.nodes[sibling].Parent = newParent
		tree.nodes[leaf].Parent = newParent
	} else {
		// The sibling was the root.
		tree.nodes[newParent].Child1 = sibling
		tree.nodes[newParent].Child2 = leaf
		tree.nodes[sibling].Parent = newParent
		tree.nodes[leaf].Parent = newParent
		tree.root = newParent
	}

	// Walk back up the tree fixing heights and AABBs
	index = tree.nodes[leaf].Parent
	for index != nullNode {
		index = tree.Balance(index)

		child1 := tree.nodes[index].Child1
		child2 := tree.nodes[index].Child2

		assert(child1 != nullNode)
		assert(child2 != nullNode)

		tree.nodes[index].Height = 1 + maxInt(tree.nodes[child1].Height, tree.nodes[child2].Height)
		tree.nodes[index].Aabb.CombineTwoInPlace(tree.nodes[child1].Aabb, tree.nodes[child2].Aabb)

		index = tree.nodes[index].Parent
	}
}

func (tree *dynamicTree) RemoveLeaf(leaf int) {
	if leaf == tree.root {
		tree.root = nullNode
		return
	}

	parent := tree.nodes[leaf].Parent
	grandParent := tree.nodes[parent].Parent
	sibling := 0
	if tree.nodes[parent].Child1 == leaf {
		sibling = tree.nodes[parent].Child2
	} else {
		sibling = tree.nodes[parent].Child1
	}

	if grandParent != nullNode {
		// Destroy parent and connect sibling to grandParent.
		if tree.nodes[grandParent].Child1 == parent {
			tree.nodes[grandParent].Child1 = sibling
		} else {
			tree.nodes[grandParent].Child2 = sibling
		}
		tree.nodes[sibling].Parent = grandParent
		tree.FreeNode(parent)

		// Adjust ancestor bounds.
		index := grandParent
		for index != nullNode {
			index = tree.Balance(index)

			child1 := tree.nodes[index].Child1
			child2 := tree.nodes[index].Child2

			tree.nodes[index].Aabb.CombineTwoInPlace(tree.nodes[child1].Aabb, tree.nodes[child2].Aabb)
			tree.nodes[index].Height = 1 + maxInt(tree.nodes[child1].Height, tree.nodes[child2].Height)

			index = tree.nodes[index].Parent
		}
	} else {
		tree.root = sibling
		tree.nodes[sibling].Parent = nullNode
		tree.FreeNode(parent)
	}
}

// Perform a left or right rotation if node A is imbalanced.
// Returns the new root index.
func (tree *dynamicTree) Balance(iA int) int {
	assert(iA != nullNode)

	A := &tree.nodes[iA]
	if A.IsLeaf() || A.Height < 2 {
		return iA
	}

	iB := A.Child1
	iC := A.Child2
	assert(0 <= iB && iB < tree.nodeCapacity)
	assert(0 <= iC && iC < tree.nodeCapacity)

	B := &tree.nodes[iB]
	C := &tree.nodes[iC]

	balance := C.Height - B.Height

	// Rotate C up
	if balance > 1 {
		iF := C.Child1
		iG := C.Child2
		assert(0 <= iF && iF < tree.nodeCapacity)
		assert(0 <= iG && iG < tree.nodeCapacity)
		F := &tree.nodes[iF]
		G := &tree.nodes[iG]

		// Swap A and C
		C.Child1 = iA
		C.Parent = A.Parent
		A.Parent = iC

		// A's old parent should point to C
		if C.Parent != nullNode {
			if tree.nodes[C.Parent].Child1 == iA {
				tree.nodes[C.Parent].Child1 = iC
			} else {
				assert(tree.nodes[C.Parent].Child2 == iA)
				tree.nodes[C.Parent].Child2 = iC
			}
		} else {
			tree.root = iC
		}

		// Rotate
		if F.Height > G.Height {
			C.Child2 = iF
			A.Child2 = iG
			G.Parent = iA
			A.Aabb.CombineTwoInPlace(B.Aabb, G.Aabb)
			C.Aabb.CombineTwoInPlace(A.Aabb, F.Aabb)

			A.Height = 1 + maxInt(B.Height, G.Height)
			C.Height = 1 + maxInt(A.Height, F.Height)
		} else {
			C.Child2 = iG
			A.Child2 = iF
			F.Parent = iA
			A.Aabb.CombineTwoInPlace(B.Aabb, F.Aabb)
			C.Aabb.CombineTwoInPlace(A.Aabb, G.Aabb)

			A.Height = 1 + maxInt(B.Height, F.Height)
			C.Height = 1 + maxInt(A.Height, G.Height)
		}

		return iC
	}

	// Rotate B up
	if balance < -1 {
		iD := B.Child1
		iE := B.Child2
		assert(0 <= iD && iD < tree.nodeCapacity)
		assert(0 <= iE && iE < tree.nodeCapacity)

		D := &tree.nodes[iD]
		E := &tree.nodes[iE]

		// Swap A and B
		B.Child1 = iA
		B.Parent = A.Parent
		A.Parent = iB

		// A's old parent should point to B
		if B.Parent != nullNode {
			if tree.nodes[B.Parent].Child1 == iA {
				tree.nodes[B.Parent].Child1 = iB
			} else {
				assert(tree.nodes[B.Parent].Child2 == iA)
				tree.nodes[B.Parent].Child2 = iB
			}
		} else {
			tree.root = iB
		}

		// Rotate
		if D.Height > E.Height {
			B.Child2 = iD
			A.Child1 = iE
			E.Parent = iA
			A.Aabb.CombineTwoInPlace(C.Aabb, E.Aabb)
			B.Aabb.CombineTwoInPlace(A.Aabb, D.Aabb)

			A.Height = 1 + maxInt(C.Height, E.Height)
			B.Height = 1 + maxInt(A.Height, D.Height)
		} else {
			B.Child2 = iE
			A.Child1 = iD
			D.Parent = iA
			A.Aabb.CombineTwoInPlace(C.Aabb, D.Aabb)
			B.Aabb.CombineTwoInPlace(A.Aabb, E.Aabb)

			A.Height = 1 + maxInt(C.Height, D.Height)
			B.Height = 1 + maxInt(A.Height, E.Height)
		}

		return iB
	}

	return iA
}
