package sqlinline

const QInsertBlog = `--sql 515d1fed-2f67-4706-914a-ea18806eeab2
insert into blogs (id, slug, title, content, tags, author_id)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text[], $6::uuid)
returning id, slug, created_at;
`

const QSelectBlogBySlug = `--sql f1fdea2d-9254-4d5e-b550-7d96a3e6054a
select id, slug, title, content, tags, author_id, likes, created_at, updated_at
from blogs
where slug = $1::text
limit 1;
`

const QListBlogs = `--sql adb85eeb-489a-4ee2-9800-f61cfbd463e2
select id, slug, title, content, tags, author_id, likes, created_at, updated_at
from blogs
order by created_at desc
limit $1::int;
`

const QUpdateBlog = `--sql 6903d0e4-3ac8-4277-82a1-5c058148d016
update blogs
set title = $2::text,
    content = $3::text,
    tags = $4::text[],
    updated_at = now()
where slug = $1::text
returning id;
`

const QDeleteBlog = `--sql 813db074-1075-45f6-8534-c950d6782832
delete from blogs
where slug = $1::text;
`

const QInsertComment = `--sql 3db93a05-a8f4-470a-879f-d2934178809e
insert into blog_comments (id, blog_id, user_id, author_name, content)
values ($1::uuid, $2::uuid, $3::uuid, $4::text, $5::text)
returning id, created_at;
`

const QListComments = `--sql ce8aff53-3a2d-4a05-8890-8dc52290a6bd
select c.id, c.blog_id, c.user_id, c.author_name, c.content, c.created_at
from blog_comments c
join blogs b on b.id = c.blog_id
where b.slug = $1::text
order by c.created_at asc;
`

const QInsertLike = `--sql 6bc2a633-b9f8-416f-bd61-7d2d6bdbaf8a
insert into blog_likes (blog_id, user_id)
select id, $2::uuid from blogs where slug = $1::text
on conflict (blog_id, user_id) do nothing;
`

const QDeleteLike = `--sql 103e50bc-2997-4710-9715-298825bb292b
delete from blog_likes
where blog_id in (select id from blogs where slug = $1::text)
  and user_id = $2::uuid;
`

const QRefreshBlogLikes = `--sql dd0dbc44-1596-4706-9fb0-b3767314028c
update blogs
set likes = (select count(*) from blog_likes where blog_id = blogs.id)
where slug = $1::text
returning likes;
`
